// Package config loads ExpenseFlow settings from defaults, an optional
// config.yaml, a .env file and EXPENSEFLOW_* environment variables, then
// validates them. PORT, DATABASE_URL, JWT_SECRET and AMQP_URL are accepted as
// unprefixed aliases.
package config
