package models

import "fmt"

type OptionType string

func (o OptionType) Validate() error {
	if o != European {
		return fmt.Errorf("OptionType: Validate: invalid option type: %s", o)
	}

	return nil
}

const (
	European OptionType = "european"
)
