package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const DefaultBufSize = 1024

type Options struct {
	File    string
	BufSize int
	Verbose bool
	Echo    bool
}

// Bind command line flags to a fresh set of options
func bindOptions(cmd *cobra.Command) *Options {
	options := &Options{}
	flags := cmd.Flags()
	flags.StringVarP(&options.File, "file", "f", "", "Read commands from a script instead of stdin")
	flags.IntVar(&options.BufSize, "bufsize", DefaultBufSize, "Capacity of the buffer used by 'rh'")
	flags.BoolVarP(&options.Verbose, "verbose", "v", false, "Log every command")
	flags.BoolVar(&options.Echo, "echo", false, "Echo commands before running them")
	return options
}

func (o *Options) Validate() error {
	if o.BufSize < 0 {
		return errors.New("bufsize must not be negative")
	}
	if o.File != "" && !FileExists(o.File) {
		return errors.Errorf("script file '%s' does not exist", o.File)
	}
	return nil
}

func (o *Options) LogLevel() logrus.Level {
	if o.Verbose {
		return logrus.DebugLevel
	}
	return logrus.InfoLevel
}

// Check if a given file path exists
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !errors.Is(err, os.ErrNotExist)
}
