// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package api is a client for the remote statistics API. It knows the
// endpoint layout, decodes wrapped {success, data, message} and bare bodies,
// and maps failures onto ErrTransport, StatusError and UnsuccessfulError.
package api
