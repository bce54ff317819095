package main

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const QtestVersion = "0.0.1"

func newRootCommand(stdin io.Reader, stdout io.Writer, logger *logrus.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "qtest",
		Short:         "Drive a string queue from a command script",
		Version:       QtestVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	options := bindOptions(root)
	root.RunE = func(_ *cobra.Command, _ []string) error {
		if err := options.Validate(); err != nil {
			return err
		}
		logger.SetLevel(options.LogLevel())

		in := stdin
		if options.File != "" {
			file, err := openScript(options.File)
			if err != nil {
				return err
			}
			defer file.Close()
			in = file
		}

		return NewSession(stdout, logger, options).Run(in)
	}

	return root
}

func openScript(path string) (*os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open script")
	}
	return file, nil
}

func main() {
	logger := logrus.New()

	root := newRootCommand(os.Stdin, os.Stdout, logger)
	if err := root.Execute(); err != nil {
		logger.Fatalf("qtest failed: %v", err)
	}
}
