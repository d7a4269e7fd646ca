// Package config handles loading tock.toml configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/amonks/tock/internal/paths"
	"github.com/amonks/tock/task"
)

// ProjectFileName is the config file looked up in the working directory.
const ProjectFileName = "tock.toml"

// DirEnvVar overrides storage.dir when set.
const DirEnvVar = "TOCK_DIR"

// Config represents the tock.toml configuration file.
type Config struct {
	Storage Storage `toml:"storage"`
	Timer   Timer   `toml:"timer"`
	Display Display `toml:"display"`
}

// Storage says where the task files and log live.
type Storage struct {
	// Dir holds every file below. Defaults to ~/.local/share/tock.
	Dir string `toml:"dir"`

	ActiveFile   string `toml:"active-file"`
	ArchiveFile  string `toml:"archive-file"`
	FinishedFile string `toml:"finished-file"`
	LogFile      string `toml:"log-file"`
}

// Timer contains timer-related configuration.
type Timer struct {
	// AutoStart makes the tracker view start a timer for every pending task.
	AutoStart bool `toml:"auto-start"`
}

// Display contains list presentation defaults.
type Display struct {
	// Sort is "newest" or "oldest".
	Sort string `toml:"sort"`
}

// Defaults returns the configuration used when no file sets a key.
func Defaults() Config {
	return Config{
		Storage: Storage{
			ActiveFile:   "tasks.json",
			ArchiveFile:  "archive.json",
			FinishedFile: "finished.json",
			LogFile:      "tock.log",
		},
		Timer:   Timer{AutoStart: true},
		Display: Display{Sort: "newest"},
	}
}

// Load loads configuration from the global config file and tock.toml in
// dir, project keys winning over global ones, then applies TOCK_DIR.
// A leading "~" in the storage dir is expanded.
func Load(dir string) (*Config, error) {
	globalPath, err := paths.GlobalConfigPath()
	if err != nil {
		return nil, err
	}

	globalCfg, globalMeta, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	projectCfg, projectMeta, err := loadConfigFile(filepath.Join(dir, ProjectFileName))
	if err != nil {
		return nil, err
	}

	merged := mergeConfigs(globalCfg, projectCfg, globalMeta, projectMeta)
	if env := strings.TrimSpace(os.Getenv(DirEnvVar)); env != "" {
		merged.Storage.Dir = env
	}
	if err := merged.resolve(); err != nil {
		return nil, err
	}
	return merged, nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: unknown key %s", path, undecoded[0])
	}

	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, projectCfg *Config, globalMeta, projectMeta toml.MetaData) *Config {
	if globalCfg == nil {
		globalCfg = &Config{}
	}
	if projectCfg == nil {
		projectCfg = &Config{}
	}

	merged := Defaults()
	pick := func(target *string, keys []string, project, global string) {
		switch {
		case projectMeta.IsDefined(keys...):
			*target = strings.TrimSpace(project)
		case globalMeta.IsDefined(keys...):
			*target = strings.TrimSpace(global)
		}
	}
	pick(&merged.Storage.Dir, []string{"storage", "dir"}, projectCfg.Storage.Dir, globalCfg.Storage.Dir)
	pick(&merged.Storage.ActiveFile, []string{"storage", "active-file"}, projectCfg.Storage.ActiveFile, globalCfg.Storage.ActiveFile)
	pick(&merged.Storage.ArchiveFile, []string{"storage", "archive-file"}, projectCfg.Storage.ArchiveFile, globalCfg.Storage.ArchiveFile)
	pick(&merged.Storage.FinishedFile, []string{"storage", "finished-file"}, projectCfg.Storage.FinishedFile, globalCfg.Storage.FinishedFile)
	pick(&merged.Storage.LogFile, []string{"storage", "log-file"}, projectCfg.Storage.LogFile, globalCfg.Storage.LogFile)
	pick(&merged.Display.Sort, []string{"display", "sort"}, projectCfg.Display.Sort, globalCfg.Display.Sort)

	if projectMeta.IsDefined("timer", "auto-start") {
		merged.Timer.AutoStart = projectCfg.Timer.AutoStart
	} else if globalMeta.IsDefined("timer", "auto-start") {
		merged.Timer.AutoStart = globalCfg.Timer.AutoStart
	}

	return &merged
}

func (c *Config) resolve() error {
	dir, err := paths.ResolveWithDefault(c.Storage.Dir, paths.DefaultDataDir)
	if err != nil {
		return err
	}
	dir, err = paths.ExpandHome(dir)
	if err != nil {
		return err
	}
	c.Storage.Dir = dir

	switch strings.ToLower(c.Display.Sort) {
	case "", "newest":
		c.Display.Sort = "newest"
	case "oldest":
		c.Display.Sort = "oldest"
	default:
		return fmt.Errorf("invalid display.sort %q: must be newest or oldest", c.Display.Sort)
	}

	for _, name := range []*string{&c.Storage.ActiveFile, &c.Storage.ArchiveFile, &c.Storage.FinishedFile, &c.Storage.LogFile} {
		if *name == "" {
			return fmt.Errorf("storage file names cannot be empty")
		}
	}
	return nil
}

// Files returns the collection files under the storage directory.
func (c *Config) Files() task.Files {
	return task.Files{
		Active:   c.path(c.Storage.ActiveFile),
		Archived: c.path(c.Storage.ArchiveFile),
		Finished: c.path(c.Storage.FinishedFile),
	}
}

// LogPath returns the diagnostic log file.
func (c *Config) LogPath() string {
	return c.path(c.Storage.LogFile)
}

// NewestFirst reports whether lists sort newest first by default.
func (c *Config) NewestFirst() bool {
	return c.Display.Sort != "oldest"
}

func (c *Config) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Storage.Dir, name)
}
