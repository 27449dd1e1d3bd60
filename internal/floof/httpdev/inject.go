// Copyright (C) 2020 The floof Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package httpdev

import (
	"bytes"
	"fmt"
)

// reloadScriptTemplate is injected into every HTML document served through the dev
// server, with the control port spliced in. The client opens a WebSocket to the
// control endpoint; a close-then-successful-reconnect is what triggers the reload, not
// any message payload (spec.md §4.8-4.9) -- this mirrors the control endpoint only ever
// communicating by dropping the connection.
const reloadScriptTemplate = `<script>(function(){var reloaded=false;function connect(){var ws=new WebSocket((location.protocol==="https:"?"wss://":"ws://")+location.hostname+":%d/");ws.onopen=function(){if(reloaded){location.reload()}};ws.onclose=function(){reloaded=true;setTimeout(connect,500)}}connect()})();</script>`

// ReloadScript returns the client script for a control endpoint bound on controlPort.
func ReloadScript(controlPort int) []byte {
	return []byte(fmt.Sprintf(reloadScriptTemplate, controlPort))
}

const (
	commentOpen  = "<!--"
	commentClose = "-->"
	bodyClose    = "</body>"
)

// InjectReloadScript inserts script immediately before the last </body> tag that is not
// inside an HTML comment, or appends it to the document if no such tag exists. It is
// idempotent: a document that already carries script is returned unchanged.
func InjectReloadScript(body, script []byte) []byte {
	if bytes.Contains(body, script) {
		return body
	}

	idx := lastBodyCloseOutsideComments(body)
	if idx == -1 {
		out := make([]byte, 0, len(body)+len(script))
		out = append(out, body...)
		out = append(out, script...)
		return out
	}

	out := make([]byte, 0, len(body)+len(script))
	out = append(out, body[:idx]...)
	out = append(out, script...)
	out = append(out, body[idx:]...)
	return out
}

// lastBodyCloseOutsideComments returns the byte offset of the last "</body>" that does
// not fall inside an HTML comment, tracking comment state with a single open/close
// toggle, or -1 if none is found.
func lastBodyCloseOutsideComments(body []byte) int {
	inComment := false
	last := -1

	for i := 0; i < len(body); {
		switch {
		case !inComment && bytes.HasPrefix(body[i:], []byte(commentOpen)):
			inComment = true
			i += len(commentOpen)
		case inComment && bytes.HasPrefix(body[i:], []byte(commentClose)):
			inComment = false
			i += len(commentClose)
		case !inComment && bytes.HasPrefix(body[i:], []byte(bodyClose)):
			last = i
			i += len(bodyClose)
		default:
			i++
		}
	}

	return last
}
