package postgres

// Migrations creates every table an aula app uses.
var Migrations = []Migration{
	{Key: "20260101-users", Executor: SQL(
		`CREATE TYPE role AS ENUM ('admin', 'student')`,
		`CREATE TYPE access_state AS ENUM ('granted', 'revoked')`,
		`CREATE TABLE users (
			id             bigserial PRIMARY KEY,
			created_at     timestamptz NOT NULL DEFAULT now(),
			updated_at     timestamptz NOT NULL DEFAULT now(),
			access_state   access_state NOT NULL DEFAULT 'granted',
			email          text NOT NULL,
			external_id    uuid NOT NULL,
			google_subject text NOT NULL DEFAULT '',
			password       bytea,
			role           role NOT NULL DEFAULT 'student'
		)`,
		`CREATE UNIQUE INDEX users_email ON users (email)`,
		`CREATE UNIQUE INDEX users_external_id ON users (external_id)`,
		`CREATE UNIQUE INDEX users_google_subject ON users (google_subject) WHERE google_subject <> ''`,
	)},
	{Key: "20260101-access-codes", Executor: SQL(
		`CREATE TYPE code_status AS ENUM ('active', 'used')`,
		`CREATE TABLE access_codes (
			id              bigserial PRIMARY KEY,
			created_at      timestamptz NOT NULL DEFAULT now(),
			updated_at      timestamptz NOT NULL DEFAULT now(),
			code            text NOT NULL,
			email           text NOT NULL DEFAULT '',
			redeemed_at     timestamptz,
			redeemed_by_id  bigint REFERENCES users (id) ON DELETE SET NULL,
			status          code_status NOT NULL DEFAULT 'active'
		)`,
		`CREATE UNIQUE INDEX access_codes_code ON access_codes (code)`,
	)},
	{Key: "20260101-entitlements", Executor: SQL(
		`CREATE TABLE entitlements (
			id              bigserial PRIMARY KEY,
			created_at      timestamptz NOT NULL DEFAULT now(),
			updated_at      timestamptz NOT NULL DEFAULT now(),
			access_code_id  bigint NOT NULL,
			granted_at      timestamptz NOT NULL,
			user_id         bigint NOT NULL REFERENCES users (id) ON DELETE CASCADE
		)`,
		`CREATE UNIQUE INDEX entitlements_user_id ON entitlements (user_id)`,
	)},
	{Key: "20260101-videos", Executor: SQL(
		`CREATE TABLE videos (
			id          bigserial PRIMARY KEY,
			created_at  timestamptz NOT NULL DEFAULT now(),
			updated_at  timestamptz NOT NULL DEFAULT now(),
			title       text NOT NULL,
			url         text NOT NULL
		)`,
	)},
	{Key: "20260101-exams", Executor: SQL(
		`CREATE TABLE exams (
			id          bigserial PRIMARY KEY,
			created_at  timestamptz NOT NULL DEFAULT now(),
			updated_at  timestamptz NOT NULL DEFAULT now(),
			link        text NOT NULL,
			title       text NOT NULL
		)`,
	)},
}
