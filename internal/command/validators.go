// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/statsctl/internal/state"
)

// GlobalFlagsValidator checks the flags that cannot be validated one at a
// time.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	if c.IsSet("api") {
		if err := APIValidator(c.String("api")); err != nil {
			return fmt.Errorf("--api %w", err)
		}
	}
	return nil
}

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// JammedFlagValidator verifies that the arg following a flag does not begin
// with '--'.  urfave/cli allows this and I don't see how to turn it off.
func JammedFlagValidator(value any) error {
	if strings.HasPrefix(value.(string), "--") {
		return errors.New("must not begin with '--'")
	}
	return nil
}

func OutputValidator(value any) error {
	var validOutputFlagValues = []string{"text", "json", "raw", "yaml"}
	if !slices.Contains(validOutputFlagValues, value.(string)) {
		return fmt.Errorf("must be one of %v", validOutputFlagValues)
	}
	return nil
}

// APIValidator requires an absolute http(s) URL.
func APIValidator(value any) error {
	u, err := url.Parse(value.(string))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.New("must be an absolute http or https URL")
	}
	return nil
}

// TabValidator requires one of the dashboard tab names.
func TabValidator(value any) error {
	if _, ok := state.ParseTab(value.(string)); !ok {
		return fmt.Errorf("must be one of %v", state.Tabs)
	}
	return nil
}

// PositiveValidator requires a number greater than zero.
func PositiveValidator(value any) error {
	if value.(int) <= 0 {
		return errors.New("must be greater than zero")
	}
	return nil
}
