package models

import "fmt"

type OptionStyle string

func (s OptionStyle) Validate() error {
	if s != Call && s != Put {
		return fmt.Errorf("OptionStyle: Validate: invalid option style: %s", s)
	}

	return nil
}

func (s OptionStyle) IsCall() bool {
	return s == Call
}

func (s OptionStyle) IsPut() bool {
	return s == Put
}

const (
	Call OptionStyle = "call"
	Put  OptionStyle = "put"
)
