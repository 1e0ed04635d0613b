package account_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/devlog/internal/account"
)

func TestValidateIdname(t *testing.T) {
	t.Parallel()

	valid := []string{"abc", "alice", "a-b_c", "ABC123", "x_______________y", "12345678901234567890"}
	for _, idname := range valid {
		require.NoError(t, account.ValidateIdname(idname), "idname %q", idname)
	}

	invalid := []string{"", "ab", "123456789012345678901", "with space", "dots.not.ok", "한글이름", "semi;colon"}
	for _, idname := range invalid {
		require.ErrorIs(t, account.ValidateIdname(idname), account.ErrInvalidIdname, "idname %q", idname)
	}
}

func TestParseProvider(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"google", "github", "naver", "kakao"} {
		p, err := account.ParseProvider(name)
		require.NoError(t, err)
		require.Equal(t, account.Provider(name), p)
	}

	_, err := account.ParseProvider("facebook")
	require.ErrorIs(t, err, account.ErrUnknownProvider)

	_, err = account.ParseProvider("")
	require.ErrorIs(t, err, account.ErrUnknownProvider)
}
