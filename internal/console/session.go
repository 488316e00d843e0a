// File: internal/console/session.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Numeric menu session driving a Dispatcher from a line-oriented input.

package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/momentics/hioload-dispatch/api"
	"github.com/momentics/hioload-dispatch/dispatch"
)

// Menu actions.
const (
	ActionNewJob = iota + 1
	ActionReceive
	ActionManage
	ActionClear
	ActionExit
)

// Result actions inside ActionManage.
const (
	ResultView = iota + 1
	ResultDelete
)

const banner = `highly scalable strlen() service
1. New job
2. Receive results
3. Manage results
3.1. View result
3.2. Delete result
4. Clear results history
5. Exit
`

var errExit = errors.New("exit requested")

// Session reads commands and job inputs from one stream and renders
// results to another. It runs on the dispatcher's goroutine.
type Session struct {
	d   *dispatch.Dispatcher
	in  *bufio.Reader
	out io.Writer
	dog *Watchdog
	log *slog.Logger
}

// NewSession binds a dispatcher to in/out. dog may be nil.
func NewSession(d *dispatch.Dispatcher, in io.Reader, out io.Writer, dog *Watchdog, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		d:   d,
		in:  bufio.NewReader(in),
		out: out,
		dog: dog,
		log: log.With("component", "session"),
	}
}

// ReadLine implements dispatch.LineSource. The terminator is kept.
func (s *Session) ReadLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			err = nil
		} else {
			return "", err
		}
	}
	s.dog.Kick()
	return line, nil
}

// Run prints the banner and serves commands. It returns nil on Exit or
// end of input and the fatal error otherwise.
func (s *Session) Run() error {
	fmt.Fprint(s.out, banner)
	for {
		err := s.Step()
		switch {
		case err == nil:
			continue
		case errors.Is(err, errExit), errors.Is(err, io.EOF):
			s.log.Debug("session ended", "reason", err)
			return nil
		default:
			s.log.Error("session terminated", "error", err, "code", api.CodeOf(err).String())
			return err
		}
	}
}

// Step serves one menu command.
func (s *Session) Step() error {
	action, err := s.readNumber(true)
	if err != nil {
		return err
	}
	switch action {
	case ActionNewJob:
		return s.newJob()
	case ActionReceive:
		fmt.Fprintf(s.out, "Received %d results\n", s.d.Drain())
		return nil
	case ActionManage:
		return s.manage()
	case ActionClear:
		s.d.Clear()
		fmt.Fprintln(s.out, "All saved results cleared")
		return nil
	case ActionExit:
		fmt.Fprintln(s.out, "Bye")
		return errExit
	}
	return api.NewError(api.ErrCodeProtocol, api.ErrUnknownAction).WithContext("action", action)
}

func (s *Session) newJob() error {
	fmt.Fprintln(s.out, "How many requests in this job?")
	count, err := s.readNumber(true)
	if err != nil {
		return err
	}
	n, err := s.d.Submit(int(count), s)
	switch {
	case err == nil:
		fmt.Fprintf(s.out, "Queued %d requests\n", n)
		return nil
	case errors.Is(err, api.ErrBatchTooLarge):
		fmt.Fprintln(s.out, "Too many!")
		return err
	case errors.Is(err, api.ErrInvalidCount):
		fmt.Fprintln(s.out, "Invalid request count")
		return nil
	}
	return err
}

func (s *Session) manage() error {
	entries := s.d.Entries()
	fmt.Fprintf(s.out, "%d results:\n", len(entries))
	if len(entries) == 0 {
		return nil
	}
	for _, e := range entries {
		if e.Deleted {
			fmt.Fprintf(s.out, "#%d: <deleted>\n", e.Index)
		} else {
			fmt.Fprintf(s.out, "#%d: %s\n", e.Index, e.Input)
		}
	}
	fmt.Fprint(s.out, "Choose a result: #")
	idx, err := s.readNumber(false)
	if err != nil {
		return err
	}
	e, err := s.d.Inspect(int(idx))
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Result #%d selected\n", e.Index)
	if e.Deleted {
		fmt.Fprintln(s.out, "<deleted>")
		return nil
	}

	action, err := s.readNumber(true)
	if err != nil {
		return err
	}
	switch action {
	case ResultView:
		fmt.Fprintf(s.out, "Input: %s\n", e.Input)
		fmt.Fprintf(s.out, "Result: %d\n", e.Output)
		return nil
	case ResultDelete:
		if err := s.d.Delete(e.Index); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Result deleted")
		return nil
	}
	return api.NewError(api.ErrCodeProtocol, api.ErrUnknownAction).WithContext("result_action", action)
}

// readNumber reads one line and parses its first field as an unsigned
// 32-bit integer. The rest of the line is ignored.
func (s *Session) readNumber(prompt bool) (uint64, error) {
	if prompt {
		fmt.Fprint(s.out, "> ")
	}
	line, err := s.ReadLine()
	if err != nil {
		return 0, err
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0, api.NewError(api.ErrCodeProtocol, api.ErrInvalidNumber).WithContext("input", "")
	}
	n, err := strconv.ParseUint(fields[0], 10, 32)
	if err != nil {
		return 0, api.NewError(api.ErrCodeProtocol, fmt.Errorf("%w: %v", api.ErrInvalidNumber, err)).
			WithContext("input", fields[0])
	}
	return n, nil
}
