// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package actor

import (
	"github.com/tochemey/sphactor/capability"
	"github.com/tochemey/sphactor/message"
)

// Command is the name of a control channel request.
type Command string

const (
	CmdStart        Command = "START"
	CmdStop         Command = "STOP"
	CmdInstance     Command = "INSTANCE"
	CmdConnect      Command = "CONNECT"
	CmdDisconnect   Command = "DISCONNECT"
	CmdUUID         Command = "UUID"
	CmdName         Command = "NAME"
	CmdType         Command = "TYPE"
	CmdEndpoint     Command = "ENDPOINT"
	CmdSend         Command = "SEND"
	CmdTrigger      Command = "TRIGGER"
	CmdSetName      Command = "SET NAME"
	CmdSetType      Command = "SET TYPE"
	CmdSetVerbose   Command = "SET VERBOSE"
	CmdSetReporting Command = "SET REPORTING"
	CmdSetTimeout   Command = "SET TIMEOUT"
	CmdTimeout      Command = "TIMEOUT"
	CmdCapability   Command = "CAPABILITY"
	CmdFilters      Command = "FILTERS"
	CmdFilterAdd    Command = "FILTER ADD"
	CmdFilterRemove Command = "FILTER REMOVE"
	CmdTerm         Command = "$TERM"
)

const (
	replyConnected    = "CONNECTED"
	replyDisconnected = "DISCONNECTED"
	boolTrue          = "TRUE"
	boolFalse         = "FALSE"
)

// request travels from a handle to its actor. A nil reply channel marks a
// fire-and-forget request. Binding requests come from capability bindings.
type request struct {
	cmd     Command
	args    *message.Message
	value   capability.Value
	reply   chan *response
	binding bool
}

// response is the single reply to a request.
type response struct {
	msg   *message.Message
	value any
	code  int
	err   error
}

func newRequest(cmd Command, args ...string) *request {
	return &request{cmd: cmd, args: message.NewString(args...)}
}

func (r *request) expectReply() *request {
	r.reply = make(chan *response, 1)
	return r
}

func (r *request) respond(resp *response) {
	if r.reply != nil {
		r.reply <- resp
	}
}

func boolArg(on bool) string {
	if on {
		return boolTrue
	}
	return boolFalse
}
