package cli

import (
	"context"
	"fmt"
)

// RunLogin prompts for credentials and stores the session.
func (c *Cli) RunLogin(ctx context.Context) error {
	username, err := promptLine("Username")
	if err != nil {
		return err
	}
	if username == "" {
		return fmt.Errorf("username is required")
	}

	password, err := promptPassword("Password")
	if err != nil {
		return err
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}

	auth, err := c.auth.Login(ctx, username, password)
	if err != nil {
		return err
	}

	c.printf("Logged in as %s\n", auth.Username)
	return nil
}

// RunLogout removes the stored session.
func (c *Cli) RunLogout(ctx context.Context) error {
	if err := c.auth.Logout(ctx); err != nil {
		return err
	}
	c.printf("Logged out\n")
	return nil
}
