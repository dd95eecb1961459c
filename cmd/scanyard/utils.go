package scanyard

import (
	"fmt"
	"time"

	"github.com/scanyard/scanyard/internal/config"
)

// settings is the fully resolved service configuration after applying
// precedence: CLI flags > environment > local file > global file > defaults.
type settings struct {
	image        string
	timeout      time.Duration
	workers      int
	databaseURL  string
	listen       string
	workspaceDir string
}

func resolveSettings(image string, timeoutSecs, workers int, databaseURL, listen, workspaceDir string) (settings, error) {
	env := config.FromEnv()
	var local, global config.FileConfig
	if flagConfig != "" {
		c, err := config.LoadFile(flagConfig)
		if err != nil {
			return settings{}, fmt.Errorf("load config %s: %w", flagConfig, err)
		}
		local = c
	} else if c, err := config.LoadLocal("."); err == nil {
		local = c
	}
	if c, err := config.LoadGlobal(); err == nil {
		global = c
	}

	s := settings{
		image:        pickString(image, env.Image, local.Image, global.Image),
		workers:      pickInt(workers, env.Workers, local.Workers, global.Workers),
		databaseURL:  pickString(databaseURL, env.DatabaseURL, local.DatabaseURL, global.DatabaseURL),
		listen:       pickString(listen, env.Listen, local.Listen, global.Listen),
		workspaceDir: pickString(workspaceDir, env.WorkspaceDir, local.WorkspaceDir, global.WorkspaceDir),
	}
	if t := pickInt(timeoutSecs, env.TimeoutSeconds, local.TimeoutSeconds, global.TimeoutSeconds); t > 0 {
		s.timeout = time.Duration(t) * time.Second
	}

	if s.image == "" {
		s.image = config.DefaultImage
	}
	if s.workers == 0 {
		s.workers = config.DefaultWorkers
	}
	if s.listen == "" {
		s.listen = config.DefaultListen
	}
	if s.timeout == 0 {
		s.timeout = time.Duration(config.DefaultTimeoutSeconds) * time.Second
	}
	return s, nil
}

func pickString(cli string, layers ...*string) string {
	if cli != "" {
		return cli
	}
	for _, l := range layers {
		if l != nil && *l != "" {
			return *l
		}
	}
	return ""
}

func pickInt(cli int, layers ...*int) int {
	if cli != 0 {
		return cli
	}
	for _, l := range layers {
		if l != nil && *l != 0 {
			return *l
		}
	}
	return 0
}
