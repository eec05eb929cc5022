package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	AppDirName            = "taskdeck"
	EnvConfigPath         = "TASKDECK_CONFIG"
)

type Keymap struct {
	Quit           string `toml:"quit"`
	Add            string `toml:"add"`
	Up             string `toml:"up"`
	Down           string `toml:"down"`
	Complete       string `toml:"complete"`
	Delete         string `toml:"delete"`
	Detail         string `toml:"detail"`
	Confirm        string `toml:"confirm"`
	Cancel         string `toml:"cancel"`
	Edit           string `toml:"edit"`
	Search         string `toml:"search"`
	FilterCategory string `toml:"filter_category"`
	FilterPriority string `toml:"filter_priority"`
	FilterStatus   string `toml:"filter_status"`
	FilterDate     string `toml:"filter_date"`
	ClearFilters   string `toml:"clear_filters"`
	SortDue        string `toml:"sort_due"`
	SortPriority   string `toml:"sort_priority"`
	SortTitle      string `toml:"sort_title"`
	SortCreated    string `toml:"sort_created"`
	SortDirection  string `toml:"sort_direction"`
	SelectMode     string `toml:"select_mode"`
	Select         string `toml:"select"`
	BatchComplete  string `toml:"batch_complete"`
	BatchDelete    string `toml:"batch_delete"`
	ToggleSubtask  string `toml:"toggle_subtask"`
	Analytics      string `toml:"analytics"`
	Notifications  string `toml:"notifications"`
	MarkAllRead    string `toml:"mark_all_read"`
	CyclePresence  string `toml:"cycle_presence"`
	Logout         string `toml:"logout"`
}

type Account struct {
	Email    string `toml:"email"`
	Password string `toml:"password"`
	Name     string `toml:"name"`
	Role     string `toml:"role"`
}

type Config struct {
	// DBPath selects a sqlite file; empty keeps the session in memory.
	DBPath           string   `toml:"db_path"`
	LogFile          string   `toml:"log_file"`
	SeedSampleData   bool     `toml:"seed_sample_data"`
	DefaultSort      string   `toml:"default_sort"`
	DefaultDirection string   `toml:"default_direction"`
	Categories       []string `toml:"categories"`
	Demo             Account  `toml:"demo"`
	Keys             Keymap   `toml:"keys"`
}

// ResolveConfigPath picks $TASKDECK_CONFIG, then the user config dir, then the
// working directory.
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, AppDirName, DefaultConfigFileName)
}

// LoadOrCreate reads path, writing the defaults there first if it does not
// exist. Keys missing from the file keep their default values.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.fillDefaults()
	return cfg, nil
}

func (c *Config) fillDefaults() {
	def := Default()
	if c.DefaultSort == "" {
		c.DefaultSort = def.DefaultSort
	}
	if c.DefaultDirection == "" {
		c.DefaultDirection = def.DefaultDirection
	}
	if len(c.Categories) == 0 {
		c.Categories = def.Categories
	}
	if c.Demo.Email == "" {
		c.Demo = def.Demo
	}
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func Default() Config {
	return Config{
		DBPath:           "",
		SeedSampleData:   true,
		DefaultSort:      "due",
		DefaultDirection: "asc",
		Categories:       []string{"Development", "Design", "Marketing", "Research"},
		Demo: Account{
			Email:    "demo@example.com",
			Password: "password",
			Name:     "John Doe",
			Role:     "Manager",
		},
		Keys: Keymap{
			Quit:           "q",
			Add:            "a",
			Up:             "k",
			Down:           "j",
			Complete:       "c",
			Delete:         "d",
			Detail:         "enter",
			Confirm:        "enter",
			Cancel:         "esc",
			Edit:           "e",
			Search:         "/",
			FilterCategory: "C",
			FilterPriority: "P",
			FilterStatus:   "S",
			FilterDate:     "D",
			ClearFilters:   "x",
			SortDue:        "1",
			SortPriority:   "2",
			SortTitle:      "3",
			SortCreated:    "4",
			SortDirection:  "r",
			SelectMode:     "v",
			Select:         " ",
			BatchComplete:  "c",
			BatchDelete:    "d",
			ToggleSubtask:  "t",
			Analytics:      "g",
			Notifications:  "n",
			MarkAllRead:    "m",
			CyclePresence:  "p",
			Logout:         "L",
		},
	}
}
