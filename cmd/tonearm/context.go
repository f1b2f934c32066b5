package main

import (
	"errors"
	"os"
	"strings"

	"tonearm/internal/config"
	"tonearm/internal/ipc"
)

// commandContext lazily resolves configuration and the daemon connection
// shared by all subcommands.
type commandContext struct {
	socketFlag *string
	configFlag *string
	userFlag   *string

	cfg *config.Config
}

func newCommandContext(socketFlag, configFlag, userFlag *string) *commandContext {
	return &commandContext{
		socketFlag: socketFlag,
		configFlag: configFlag,
		userFlag:   userFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, _, _, err := config.Load(*c.configFlag)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

func (c *commandContext) socketPath() (string, error) {
	if path := strings.TrimSpace(*c.socketFlag); path != "" {
		return path, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	return cfg.Paths.SocketPath, nil
}

func (c *commandContext) dial() (*ipc.Client, error) {
	path, err := c.socketPath()
	if err != nil {
		return nil, err
	}
	return ipc.Dial(path)
}

func (c *commandContext) user() (string, error) {
	if user := strings.TrimSpace(*c.userFlag); user != "" {
		return user, nil
	}
	if user := strings.TrimSpace(os.Getenv("USER")); user != "" {
		return user, nil
	}
	return "", errors.New("no acting user: pass --user or set $USER")
}
