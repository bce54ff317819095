package main

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

func ErrUnknownCmd(cmd string) error {
	return errors.Errorf("unknown command '%s'", cmd)
}

func ErrInvalidNArg(cmd string) error {
	return errors.Errorf("invalid number of arguments for command '%s'", cmd)
}

var ErrNotInt = errors.New("value is not an integer or out of range")
var ErrUnbalancedQuotes = errors.New("unbalanced quotes")
var ErrEmptyCommand = errors.New("empty command")

type CommandType = byte

const (
	CmdNew CommandType = iota
	CmdFree
	CmdInsertHead
	CmdInsertTail
	CmdRemoveHead
	CmdRemoveHeadQuiet
	CmdSize
	CmdReverse
	CmdSort
	CmdShow
	CmdFail
	CmdLimit
	CmdStats
	CmdQuit
)

type Command struct {
	Kind  CommandType
	Name  string
	Value string
	Count int

	Expected    string // rh
	HasExpected bool   // rh, size
}

func ParseCommand(message string) (*Command, error) {
	split, err := sanitize(message)
	if err != nil {
		return nil, err
	}

	argc := len(split)
	if argc == 0 {
		return nil, ErrEmptyCommand
	}

	cmd := strings.ToLower(split[0])
	switch cmd {
	case "new", "free", "reverse", "sort", "show", "stats", "rhq":
		if argc != 1 {
			return nil, ErrInvalidNArg(cmd)
		}
		return &Command{Kind: noArgCommands[cmd], Name: cmd}, nil
	case "quit", "exit":
		if argc != 1 {
			return nil, ErrInvalidNArg(cmd)
		}
		return &Command{Kind: CmdQuit, Name: cmd}, nil
	case "ih", "it":
		if argc < 2 || argc > 3 {
			return nil, ErrInvalidNArg(cmd)
		}
		insert := &Command{Kind: CmdInsertHead, Name: cmd, Value: split[1], Count: 1}
		if cmd == "it" {
			insert.Kind = CmdInsertTail
		}
		if argc == 3 {
			count, err := strconv.Atoi(split[2])
			if err != nil || count < 1 {
				return nil, ErrNotInt
			}
			insert.Count = count
		}
		return insert, nil
	case "rh":
		if argc > 2 {
			return nil, ErrInvalidNArg(cmd)
		}
		rh := &Command{Kind: CmdRemoveHead, Name: cmd}
		if argc == 2 {
			rh.Expected = split[1]
			rh.HasExpected = true
		}
		return rh, nil
	case "size":
		if argc > 2 {
			return nil, ErrInvalidNArg(cmd)
		}
		size := &Command{Kind: CmdSize, Name: cmd}
		if argc == 2 {
			count, err := strconv.Atoi(split[1])
			if err != nil {
				return nil, ErrNotInt
			}
			size.Count = count
			size.HasExpected = true
		}
		return size, nil
	case "fail", "limit":
		if argc != 2 {
			return nil, ErrInvalidNArg(cmd)
		}
		n, err := strconv.Atoi(split[1])
		if err != nil {
			return nil, ErrNotInt
		}
		kind := CmdFail
		if cmd == "limit" {
			kind = CmdLimit
		}
		return &Command{Kind: kind, Name: cmd, Count: n}, nil
	}

	return nil, ErrUnknownCmd(cmd)
}

var noArgCommands = map[string]CommandType{
	"new":     CmdNew,
	"free":    CmdFree,
	"reverse": CmdReverse,
	"sort":    CmdSort,
	"show":    CmdShow,
	"stats":   CmdStats,
	"rhq":     CmdRemoveHeadQuiet,
}

func isWhitespace(b byte) bool {
	return unicode.IsSpace(rune(b))
}

// Split a line into tokens. Single or double quotes group a token, which may
// be empty.
func sanitize(message string) ([]string, error) {
	out := []string{}
	i := 0

	for i < len(message) {
		c := message[i]
		if isWhitespace(c) {
			i++
			continue
		}

		if c == '"' || c == '\'' {
			end := strings.IndexByte(message[i+1:], c)
			if end < 0 {
				return nil, ErrUnbalancedQuotes
			}

			out = append(out, message[i+1:i+1+end])
			i += end + 2
			continue
		}

		start := i
		for i < len(message) && !isWhitespace(message[i]) {
			i++
		}
		out = append(out, message[start:i])
	}

	return out, nil
}
