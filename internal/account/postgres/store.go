// Package postgres implements account.Store on PostgreSQL via pgx.
//
// Uniqueness of idname and (provider, provider_id) is enforced by unique
// constraints; unique-violation errors are translated to the domain
// sentinels so callers never see SQLSTATE codes.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/devlog/internal/account"
	"github.com/dmitrymomot/devlog/pkg/db"
)

const (
	idnameConstraint   = "accounts_idname_key"
	identityConstraint = "external_identities_provider_key"
)

// Store is the PostgreSQL-backed account store.
type Store struct {
	pool *pgxpool.Pool
}

var _ account.Store = (*Store)(nil)

// New creates a Store over the given connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const accountColumns = `id, email, display_name, idname, avatar_url, bio,
	github, linkedin, website, status, email_verified, created_at, updated_at`

func scanAccount(row pgx.Row) (*account.Account, error) {
	var a account.Account
	var idname, avatarURL, bio, github, linkedin, website *string
	err := row.Scan(&a.ID, &a.Email, &a.DisplayName, &idname, &avatarURL, &bio,
		&github, &linkedin, &website, &a.Status, &a.EmailVerified, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Idname = deref(idname)
	a.AvatarURL = deref(avatarURL)
	a.Bio = deref(bio)
	a.Github = deref(github)
	a.Linkedin = deref(linkedin)
	a.Website = deref(website)
	return &a, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// nullable maps "" to NULL so empty optional fields never occupy the
// unique idname index or show up as empty strings.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (s *Store) FindByIdentity(ctx context.Context, provider account.Provider, providerID string) (*account.Account, error) {
	var accountID int64
	err := s.pool.QueryRow(ctx,
		`SELECT account_id FROM external_identities WHERE provider = $1 AND provider_id = $2`,
		provider, providerID,
	).Scan(&accountID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, account.ErrIdentityNotFound
	}
	if err != nil {
		return nil, wrapErr(err)
	}

	a, err := s.FindByID(ctx, accountID)
	if errors.Is(err, account.ErrNotFound) {
		// An identity row without its account contradicts the FK cascade.
		return nil, errors.Join(account.ErrDataIntegrity,
			fmt.Errorf("identity (%s, %s) points at missing account %d", provider, providerID, accountID))
	}
	return a, err
}

func (s *Store) FindByID(ctx context.Context, id int64) (*account.Account, error) {
	a, err := scanAccount(s.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, account.ErrNotFound
	}
	if err != nil {
		return nil, wrapErr(err)
	}
	return a, nil
}

func (s *Store) FindByIdname(ctx context.Context, idname string) (*account.Account, error) {
	a, err := scanAccount(s.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE idname = $1`, idname))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, account.ErrNotFound
	}
	if err != nil {
		return nil, wrapErr(err)
	}
	return a, nil
}

func (s *Store) CreateWithIdentity(ctx context.Context, p account.NewProfile) (*account.Account, error) {
	var created *account.Account
	err := db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		a, err := scanAccount(tx.QueryRow(ctx,
			`INSERT INTO accounts (email, display_name, avatar_url, status, email_verified)
			 VALUES ($1, $2, $3, 'pending', true)
			 RETURNING `+accountColumns,
			p.Email, p.DisplayName, nullable(p.AvatarURL)))
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO external_identities (account_id, provider, provider_id, provider_email)
			 VALUES ($1, $2, $3, $4)`,
			a.ID, p.Provider, p.ProviderID, p.Email)
		if err != nil {
			// Unique violation here means a concurrent login created the
			// same identity; the account insert above is rolled back with us.
			return err
		}

		created = a
		return nil
	})
	if err != nil {
		return nil, wrapErr(err)
	}
	return created, nil
}

func (s *Store) UpdateEmail(ctx context.Context, id int64, email string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE accounts SET email = $2, updated_at = now(), version = version + 1 WHERE id = $1`,
		id, email)
	if err != nil {
		return wrapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return account.ErrNotFound
	}
	return nil
}

func (s *Store) CompleteProfile(ctx context.Context, id int64, idname, bio string) (*account.Account, error) {
	a, err := scanAccount(s.pool.QueryRow(ctx,
		`UPDATE accounts
		 SET idname = $2, bio = $3, status = 'active', updated_at = now(), version = version + 1
		 WHERE id = $1 AND status = 'pending'
		 RETURNING `+accountColumns,
		id, idname, nullable(bio)))
	if errors.Is(err, pgx.ErrNoRows) {
		// Distinguish a missing account from one that already completed setup.
		if _, findErr := s.FindByID(ctx, id); findErr != nil {
			return nil, findErr
		}
		return nil, account.ErrAlreadyActive
	}
	if err != nil {
		return nil, wrapErr(err)
	}
	return a, nil
}

func (s *Store) UpdateBasicProfile(ctx context.Context, id int64, p account.BasicProfile) (*account.Account, error) {
	a, err := scanAccount(s.pool.QueryRow(ctx,
		`UPDATE accounts
		 SET display_name = COALESCE($2, display_name),
		     bio = COALESCE($3, bio),
		     updated_at = now(), version = version + 1
		 WHERE id = $1
		 RETURNING `+accountColumns,
		id, p.DisplayName, p.Bio))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, account.ErrNotFound
	}
	if err != nil {
		return nil, wrapErr(err)
	}
	return a, nil
}

func (s *Store) UpdateSocialLinks(ctx context.Context, id int64, links account.SocialLinks) (*account.Account, error) {
	a, err := scanAccount(s.pool.QueryRow(ctx,
		`UPDATE accounts
		 SET github = COALESCE($2, github),
		     linkedin = COALESCE($3, linkedin),
		     website = COALESCE($4, website),
		     updated_at = now(), version = version + 1
		 WHERE id = $1
		 RETURNING `+accountColumns,
		id, links.Github, links.Linkedin, links.Website))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, account.ErrNotFound
	}
	if err != nil {
		return nil, wrapErr(err)
	}
	return a, nil
}

func (s *Store) UpdateIdname(ctx context.Context, id int64, idname string) (*account.Account, error) {
	a, err := scanAccount(s.pool.QueryRow(ctx,
		`UPDATE accounts
		 SET idname = $2, updated_at = now(), version = version + 1
		 WHERE id = $1 AND status = 'active'
		 RETURNING `+accountColumns,
		id, idname))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, account.ErrNotFound
	}
	if err != nil {
		return nil, wrapErr(err)
	}
	return a, nil
}

func (s *Store) UpdateAvatar(ctx context.Context, id int64, avatarURL string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE accounts SET avatar_url = $2, updated_at = now(), version = version + 1 WHERE id = $1`,
		id, nullable(avatarURL))
	if err != nil {
		return wrapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return account.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return wrapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return account.ErrNotFound
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]account.Account, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY id`)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	var accounts []account.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, wrapErr(err)
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

// wrapErr maps PostgreSQL error codes to domain sentinels: unique
// violations become conflict errors, serialization failures become
// retryable transaction errors.
func wrapErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505" && pgErr.ConstraintName == idnameConstraint:
			return errors.Join(account.ErrIdnameTaken, err)
		case pgErr.Code == "23505" && pgErr.ConstraintName == identityConstraint:
			return errors.Join(account.ErrIdentityExists, err)
		case pgErr.Code == "40001" || pgErr.Code == "40P01":
			return errors.Join(account.ErrTxFailed, err)
		}
	}
	return err
}
