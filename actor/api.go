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
	"errors"
	"strconv"

	"github.com/tochemey/sphactor/capability"
	gerrors "github.com/tochemey/sphactor/errors"
	"github.com/tochemey/sphactor/message"
)

// handleRequest processes a control request received from the handle
func (a *Actor) handleRequest(req *request) {
	a.status = StatusAPI
	a.produceReport()

	if a.verbose {
		a.logger.Infof("command: %s", req.cmd)
	} else {
		a.logger.Debugf("command: %s", req.cmd)
	}

	if !a.execute(req) {
		a.forward(req)
	}
}

// execute runs the commands handled by the runtime itself. It returns false
// for commands that belong to the behavior.
func (a *Actor) execute(req *request) bool {
	switch req.cmd {
	case CmdStart, CmdStop:
		// lifecycle events are driven by the loop itself
		a.logger.Debugf("ignoring %s, the lifecycle is managed by the runtime", req.cmd)
		req.respond(&response{})

	case CmdInstance:
		req.respond(&response{value: a.instance})

	case CmdConnect:
		dest, _ := req.args.PopString()
		err := a.Connect(dest)
		if err != nil {
			a.logger.Warnf("failed to connect to %s: %v", dest, err)
		}
		code := gerrors.ResultCode(err)
		req.respond(&response{
			msg:  message.NewString(replyConnected, dest, strconv.Itoa(code)),
			code: code,
			err:  err,
		})

	case CmdDisconnect:
		dest, _ := req.args.PopString()
		err := a.Disconnect(dest)
		if err != nil {
			a.logger.Warnf("failed to disconnect from %s: %v", dest, err)
		}
		code := gerrors.ResultCode(err)
		req.respond(&response{
			msg:  message.NewString(replyDisconnected, dest, strconv.Itoa(code)),
			code: code,
			err:  err,
		})

	case CmdFilters:
		filters := a.Filters()
		msg := message.NewString(filters...)
		if len(filters) == 0 {
			msg = message.New(nil)
		}
		req.respond(&response{msg: msg, value: filters})

	case CmdFilterAdd:
		if filter, ok := req.args.PopString(); ok {
			a.AddFilter(filter)
		} else {
			a.logger.Warnf("%s without a filter", req.cmd)
		}

	case CmdFilterRemove:
		if filter, ok := req.args.PopString(); ok {
			a.RemoveFilter(filter)
		} else {
			a.logger.Warnf("%s without a filter", req.cmd)
		}

	case CmdUUID:
		req.respond(&response{msg: message.NewString(a.uuid), value: a.uuid})

	case CmdName:
		req.respond(&response{msg: message.NewString(a.name), value: a.name})

	case CmdType:
		req.respond(&response{msg: message.NewString(a.typeName), value: a.typeName})

	case CmdEndpoint:
		req.respond(&response{msg: message.NewString(a.endpoint), value: a.endpoint})

	case CmdSend:
		if req.args.Size() == 0 {
			a.publish(message.NewString(a.name))
		} else {
			a.publish(req.args)
		}

	case CmdTrigger:
		out, err := a.invoke(EventSock, nil, 0, capability.Value{})
		if err != nil {
			a.logger.Errorf("triggered handler failed: %v", err)
		}
		if out != nil {
			a.publish(out)
		}

	case CmdSetName:
		name, ok := req.args.PopString()
		if !ok || name == "" {
			a.logger.Warnf("%s without a name", req.cmd)
			break
		}
		a.name = name
		a.setLogger()

	case CmdSetType:
		a.typeName, _ = req.args.PopString()

	case CmdSetVerbose:
		value, ok := req.args.PopString()
		a.verbose = ok && value != boolFalse

	case CmdSetReporting:
		value, ok := req.args.PopString()
		a.cell.setEnabled(!ok || value != boolFalse)

	case CmdSetTimeout:
		timeout, err := timeoutArg(req)
		if err != nil {
			a.logger.Errorf("%s: %v", req.cmd, err)
			break
		}
		a.SetTimeout(timeout)

	case CmdTimeout:
		req.respond(&response{msg: message.NewString(strconv.FormatInt(a.timeout, 10)), value: a.timeout})

	case CmdCapability:
		req.respond(&response{value: a.capability.Dup()})

	case CmdTerm:
		a.terminated = true

	default:
		return false
	}
	return true
}

// forward hands an unknown command to the behavior as an API event. The
// command name is pushed back in front of its arguments.
func (a *Actor) forward(req *request) {
	msg := req.args
	if msg == nil {
		msg = message.New()
	}
	msg.PushString(string(req.cmd))

	out, err := a.invoke(EventAPI, msg, 0, req.value)
	switch {
	case errors.Is(err, gerrors.ErrUnknownCommand):
		if req.reply != nil {
			a.logger.Warnf("command %q is unknown to actor %s", req.cmd, a.name)
			req.respond(&response{code: -1, err: err})
			return
		}
		if req.binding {
			a.logger.Errorf("capability binding %q is unknown to actor %s", req.cmd, a.name)
			return
		}
		a.logger.Panicf("protocol desynchronization: command %q is unknown to actor %s", req.cmd, a.name)
	case err != nil:
		a.logger.Errorf("API handler failed for %q: %v", req.cmd, err)
	}

	if req.reply != nil {
		req.respond(&response{msg: out, code: gerrors.ResultCode(err), err: err})
		return
	}
	if out != nil {
		a.logger.Debugf("discarding reply to %q, no reply was requested", req.cmd)
	}
}

// applyBindings sends, for every bound parameter of d, the bound command
// with the parameter default. Commands the runtime knows are applied right
// away, the others are queued for the behavior.
func (a *Actor) applyBindings(d *capability.Descriptor) {
	for _, param := range d.Bound() {
		value, err := param.Default()
		if err != nil {
			a.logger.Errorf("capability %q has an invalid default: %v", param.Name, err)
			continue
		}

		req := &request{
			cmd:     Command(param.APICall),
			args:    message.NewString(value.String()),
			value:   value,
			binding: true,
		}
		if builtin(req.cmd) {
			a.execute(req)
			continue
		}
		a.deferred = append(a.deferred, req)
	}
}

// builtin tells whether the runtime handles cmd itself
func builtin(cmd Command) bool {
	switch cmd {
	case CmdStart, CmdStop, CmdInstance, CmdConnect, CmdDisconnect, CmdFilters,
		CmdFilterAdd, CmdFilterRemove, CmdUUID, CmdName, CmdType, CmdEndpoint,
		CmdSend, CmdTrigger, CmdSetName, CmdSetType, CmdSetVerbose, CmdSetReporting,
		CmdSetTimeout, CmdTimeout, CmdCapability, CmdTerm:
		return true
	default:
		return false
	}
}

// timeoutArg extracts the timeout of a SET TIMEOUT request
func timeoutArg(req *request) (int64, error) {
	if req.value.Format() == capability.FormatInt {
		return req.value.Int(), nil
	}
	raw, ok := req.args.PopString()
	if !ok {
		return 0, gerrors.ErrInvalidTimeout
	}
	timeout, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Join(gerrors.ErrInvalidTimeout, err)
	}
	return timeout, nil
}
