package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"skabillium/qlab/cmd/queue"
)

var errNoQueue = errors.New("no queue, run 'new' first")

// Session drives a single queue from parsed commands and counts every failed
// operation or mismatched expectation.
type Session struct {
	q       *queue.Queue
	tracker *queue.Tracker
	logger  *logrus.Logger
	out     io.Writer
	options *Options

	Errors int
}

func NewSession(out io.Writer, logger *logrus.Logger, options *Options) *Session {
	return &Session{
		tracker: queue.NewTracker(),
		logger:  logger,
		out:     out,
		options: options,
	}
}

func (s *Session) Writeln(message string) {
	fmt.Fprintln(s.out, message)
}

func (s *Session) Error(err error) {
	s.Errors++
	s.Writeln("[ERROR]: " + err.Error())
}

// Run executes commands line by line until input ends or a quit command is
// read, then releases the queue and checks the tracker for leaks.
func (s *Session) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		if s.options.Echo {
			s.Writeln("cmd> " + line)
		}

		cmd, err := ParseCommand(line)
		if err != nil {
			s.Error(err)
			continue
		}
		if cmd.Kind == CmdQuit {
			break
		}

		s.Execute(cmd)
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "reading commands")
	}

	return s.Close()
}

func (s *Session) Close() error {
	s.q.Free()
	s.q = nil

	if err := s.tracker.Leaked(); err != nil {
		s.logger.WithError(err).Error("session: allocation accounting failed")
		s.Errors++
		return err
	}
	if s.Errors > 0 {
		return errors.Errorf("%d errors", s.Errors)
	}
	return nil
}

func (s *Session) Execute(cmd *Command) {
	log := s.logger.WithField("cmd", cmd.Name)
	log.Debug("session: executing")

	var err error
	switch cmd.Kind {
	case CmdNew:
		s.q.Free()
		s.q, err = queue.New(queue.WithAllocator(s.tracker), queue.WithLogger(s.logger))
	case CmdFree:
		s.q.Free()
		s.q = nil
	case CmdInsertHead, CmdInsertTail:
		err = s.insert(cmd)
	case CmdRemoveHead:
		err = s.removeHead(cmd)
	case CmdRemoveHeadQuiet:
		err = s.withQueue(func() error { return s.q.RemoveHead(nil) })
	case CmdSize:
		err = s.size(cmd)
	case CmdReverse:
		err = s.withQueue(func() error { s.q.Reverse(); return nil })
	case CmdSort:
		err = s.withQueue(func() error {
			s.q.Sort()
			if !slices.IsSorted(s.q.Values()) {
				return errors.New("queue is not sorted after 'sort'")
			}
			return nil
		})
	case CmdShow:
	case CmdFail:
		s.tracker.FailAfter(cmd.Count)
	case CmdLimit:
		s.tracker.SetLimit(cmd.Count)
	case CmdStats:
		s.Writeln(s.tracker.String())
		return
	default:
		err = ErrUnknownCmd(cmd.Name)
	}

	if err != nil {
		log.WithError(err).Debug("session: command failed")
		s.Error(err)
	}

	if err := s.q.Validate(); err != nil {
		log.WithError(err).Warn("session: invariant violated")
		s.Error(err)
	}

	s.show()
}

func (s *Session) withQueue(fn func() error) error {
	if s.q == nil {
		return errNoQueue
	}
	return fn()
}

func (s *Session) insert(cmd *Command) error {
	return s.withQueue(func() error {
		for i := 0; i < cmd.Count; i++ {
			var err error
			if cmd.Kind == CmdInsertHead {
				err = s.q.InsertHead(cmd.Value)
			} else {
				err = s.q.InsertTail(cmd.Value)
			}
			if err != nil {
				return errors.Wrapf(err, "insertion %d of %d", i+1, cmd.Count)
			}
		}
		return nil
	})
}

func (s *Session) removeHead(cmd *Command) error {
	return s.withQueue(func() error {
		buf := make([]byte, s.options.BufSize)
		if err := s.q.RemoveHead(buf); err != nil {
			return err
		}

		// The buffer must stay terminated within its capacity.
		end := bytes.IndexByte(buf, 0)
		if len(buf) > 0 && end < 0 {
			return errors.New("removed value is not terminated")
		}

		removed := string(buf[:max(end, 0)])
		s.Writeln(fmt.Sprintf("Removed %s from queue", removed))
		if cmd.HasExpected && removed != cmd.Expected {
			return errors.Errorf("removed value '%s' does not match expected value '%s'", removed, cmd.Expected)
		}
		return nil
	})
}

func (s *Session) size(cmd *Command) error {
	return s.withQueue(func() error {
		size := s.q.Size()
		s.Writeln(fmt.Sprintf("Queue size = %d", size))
		if cmd.HasExpected && size != cmd.Count {
			return errors.Errorf("computed queue size as %d, but expected %d", size, cmd.Count)
		}
		return nil
	})
}

func (s *Session) show() {
	if s.q == nil {
		s.Writeln("q = NULL")
		return
	}
	s.Writeln("q = [" + strings.Join(s.q.Values(), " ") + "]")
}
