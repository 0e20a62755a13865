// Package api handles incoming HTTP requests, request decoding and response
// formatting. It adapts the ExpenseFlow services to JSON over HTTP: handlers
// decode the body, call one service operation and translate the result or
// error (see errors.go) into a response. Routing lives in cmd/server.
package api
