package main

import (
	"io"
	"os"
	"os/exec"
	"time"

	md2latex "github.com/alnah/go-md2latex"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, the working directory and external commands.
type Environment struct {
	Now      func() time.Time
	Stdout   io.Writer
	Stderr   io.Writer
	Getwd    func() (string, error)
	LookPath func(file string) (string, error)
	Runner   md2latex.CommandRunner // Runs the TeX engine
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:      time.Now,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Getwd:    os.Getwd,
		LookPath: exec.LookPath,
		Runner:   &md2latex.ExecRunner{},
	}
}
