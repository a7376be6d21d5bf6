package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Keymap maps key strings ("up", "shift+down", "q") to action names.
type Keymap map[string]string

type EditorOptions struct {
	Fallback        string   `toml:"fallback"`
	TodoPatterns    []string `toml:"todo-patterns"`
	ListWidth       int      `toml:"list-width"`
	ShowHelp        *bool    `toml:"show-help"`
	GitBranchSymbol string   `toml:"git-branch-symbol"`
}

type Theme struct {
	Theme                 string `toml:"theme"`
	Foreground            string `toml:"foreground"`
	Background            string `toml:"background"`
	StatuslineForeground  string `toml:"statusline-foreground"`
	StatuslineBackground  string `toml:"statusline-background"`
	HelpForeground        string `toml:"help-foreground"`
	HelpKeyForeground     string `toml:"help-key-foreground"`
	SelectionForeground   string `toml:"selection-foreground"`
	SelectionBackground   string `toml:"selection-background"`
	BorderForeground      string `toml:"border-foreground"`
	PlaceholderForeground string `toml:"placeholder-foreground"`
	TodoEdit              string `toml:"todo-edit"`
	TodoReword            string `toml:"todo-reword"`
	TodoSquash            string `toml:"todo-squash"`
	TodoFixup             string `toml:"todo-fixup"`
	TodoExec              string `toml:"todo-exec"`
	DiffAdded             string `toml:"diff-added"`
	DiffRemoved           string `toml:"diff-removed"`
	DiffHunk              string `toml:"diff-hunk"`
	DiffHeader            string `toml:"diff-header"`
}

type Config struct {
	Editor EditorOptions `toml:"editor"`
	Theme  Theme         `toml:"theme"`
	Keymap Keymap        `toml:"keymap"`
}

// DefaultTodoPattern matches the file git hands to its sequence editor.
const DefaultTodoPattern = "git-rebase-todo"

func Default() Config {
	showHelp := true
	return Config{
		Editor: EditorOptions{
			TodoPatterns:    []string{DefaultTodoPattern},
			ListWidth:       36,
			ShowHelp:        &showHelp,
			GitBranchSymbol: "git:",
		},
		Theme: Theme{
			Foreground:            "white",
			Background:            "default",
			StatuslineForeground:  "#B3B1AD",
			StatuslineBackground:  "#0F1419",
			HelpForeground:        "#B3B1AD",
			HelpKeyForeground:     "white",
			SelectionForeground:   "white",
			SelectionBackground:   "#27425A",
			BorderForeground:      "#3E4B59",
			PlaceholderForeground: "#5C6773",
			TodoEdit:              "blue",
			TodoReword:            "#95E6CB",
			TodoSquash:            "yellow",
			TodoFixup:             "#FFEE99",
			TodoExec:              "red",
			DiffAdded:             "green",
			DiffRemoved:           "red",
			DiffHunk:              "#5CCFE6",
			DiffHeader:            "#E6B450",
		},
		Keymap: Keymap{
			"up":         "move_up",
			"down":       "move_down",
			"shift+up":   "swap_up",
			"shift+down": "swap_down",
			"p":          "pick",
			"e":          "edit",
			"r":          "reword",
			"s":          "squash",
			"f":          "fixup",
			"d":          "drop",
			"q":          "save_quit",
			"a":          "abort",
		},
	}
}

// Load reads config.toml from the config directory. A missing file yields
// the defaults.
func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Default(), err
	}
	return LoadFile(path)
}

// LoadFile merges the config at path over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	if _, err := toml.Decode(string(data), &userCfg); err != nil {
		return cfg, err
	}

	if userCfg.Editor.Fallback != "" {
		cfg.Editor.Fallback = userCfg.Editor.Fallback
	}
	if len(userCfg.Editor.TodoPatterns) > 0 {
		cfg.Editor.TodoPatterns = userCfg.Editor.TodoPatterns
	}
	if userCfg.Editor.ListWidth > 0 {
		cfg.Editor.ListWidth = userCfg.Editor.ListWidth
	}
	if userCfg.Editor.ShowHelp != nil {
		cfg.Editor.ShowHelp = userCfg.Editor.ShowHelp
	}
	if userCfg.Editor.GitBranchSymbol != "" {
		cfg.Editor.GitBranchSymbol = userCfg.Editor.GitBranchSymbol
	}
	if userCfg.Theme.Theme != "" {
		cfg.Theme.Theme = userCfg.Theme.Theme
	}
	if cfg.Theme.Theme != "" {
		theme, err := LoadTheme(cfg.Theme.Theme)
		if err != nil {
			return cfg, err
		}
		mergeTheme(&cfg.Theme, theme)
	}
	mergeTheme(&cfg.Theme, userCfg.Theme)
	for k, v := range userCfg.Keymap {
		cfg.Keymap[k] = v
	}

	return cfg, nil
}

// HelpVisible reports whether the key help header is drawn.
func (o EditorOptions) HelpVisible() bool {
	return o.ShowHelp == nil || *o.ShowHelp
}

func mergeTheme(dst *Theme, src Theme) {
	merge := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	merge(&dst.Foreground, src.Foreground)
	merge(&dst.Background, src.Background)
	merge(&dst.StatuslineForeground, src.StatuslineForeground)
	merge(&dst.StatuslineBackground, src.StatuslineBackground)
	merge(&dst.HelpForeground, src.HelpForeground)
	merge(&dst.HelpKeyForeground, src.HelpKeyForeground)
	merge(&dst.SelectionForeground, src.SelectionForeground)
	merge(&dst.SelectionBackground, src.SelectionBackground)
	merge(&dst.BorderForeground, src.BorderForeground)
	merge(&dst.PlaceholderForeground, src.PlaceholderForeground)
	merge(&dst.TodoEdit, src.TodoEdit)
	merge(&dst.TodoReword, src.TodoReword)
	merge(&dst.TodoSquash, src.TodoSquash)
	merge(&dst.TodoFixup, src.TodoFixup)
	merge(&dst.TodoExec, src.TodoExec)
	merge(&dst.DiffAdded, src.DiffAdded)
	merge(&dst.DiffRemoved, src.DiffRemoved)
	merge(&dst.DiffHunk, src.DiffHunk)
	merge(&dst.DiffHeader, src.DiffHeader)
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

// LoadTheme reads theme/<name>.toml. Both a flat file and one wrapped in a
// [theme] table are accepted.
func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	var wrap struct {
		Theme *Theme `toml:"theme"`
	}
	if _, err := toml.Decode(string(data), &wrap); err == nil && wrap.Theme != nil {
		return *wrap.Theme, nil
	}
	var t Theme
	if _, err := toml.Decode(string(data), &t); err != nil {
		return Theme{}, err
	}
	return t, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("QREBASE_CONFIG_HOME"); v != "" {
		return filepath.Clean(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "qrebase"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "qrebase"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
