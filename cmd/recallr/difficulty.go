package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/at-ishikawa/recallr/internal/memory"
)

type difficultyFlag memory.Difficulty

func (d *difficultyFlag) Set(val string) error {
	parsed, err := memory.ParseDifficulty(val)
	if err != nil {
		return fmt.Errorf("invalid difficulty %q, possible values are %v", val, memory.AllDifficulties)
	}
	*d = difficultyFlag(parsed)
	return nil
}

func (d difficultyFlag) String() string {
	return string(d)
}

func (d *difficultyFlag) Type() string {
	return "difficulty"
}

var _ pflag.Value = (*difficultyFlag)(nil)
