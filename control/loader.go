// control/loader.go
// Author: momentics <momentics@gmail.com>
//
// Kernel settings from a config file, FURI_ environment variables and
// defaults, with file watching for live reload.

package control

import (
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/momentics/furi-thread/api"
	"github.com/momentics/furi-thread/internal/logging"
	"github.com/momentics/furi-thread/rtos"
)

// EnvPrefix prefixes environment overrides, e.g. FURI_LOG_LEVEL for log.level.
const EnvPrefix = "FURI"

// Setting keys.
const (
	KeyTickFrequency = "tick_frequency"
	KeyHeapTrackMode = "heap_track_mode"
	KeyMaxStackSize  = "max_stack_size"
	KeyHistoryDepth  = "history_depth"
	KeyLogLevel      = "log.level"
	KeyLogFormat     = "log.format"
)

// Settings is the on-disk kernel configuration.
type Settings struct {
	TickFrequency uint32      `mapstructure:"tick_frequency"`
	HeapTrackMode string      `mapstructure:"heap_track_mode"`
	MaxStackSize  int         `mapstructure:"max_stack_size"`
	HistoryDepth  int         `mapstructure:"history_depth"`
	Log           LogSettings `mapstructure:"log"`
}

// LogSettings configures the kernel logger.
type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultSettings mirrors rtos.DefaultConfig.
func DefaultSettings() Settings {
	cfg := rtos.DefaultConfig()
	return Settings{
		TickFrequency: cfg.TickFrequency,
		HeapTrackMode: cfg.HeapTrackMode.String(),
		MaxStackSize:  cfg.MaxStackSize,
		HistoryDepth:  cfg.HistoryDepth,
		Log: LogSettings{
			Level:  logging.LevelWarn,
			Format: logging.FormatText,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultSettings()
	v.SetDefault(KeyTickFrequency, d.TickFrequency)
	v.SetDefault(KeyHeapTrackMode, d.HeapTrackMode)
	v.SetDefault(KeyMaxStackSize, d.MaxStackSize)
	v.SetDefault(KeyHistoryDepth, d.HistoryDepth)
	v.SetDefault(KeyLogLevel, d.Log.Level)
	v.SetDefault(KeyLogFormat, d.Log.Format)
}

func decode(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, api.NewError(api.ErrCodeInvalidArgument, "cannot decode settings").Wrap(err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func invalidSetting(key string, value any) error {
	return api.NewError(api.ErrCodeInvalidArgument, "invalid setting").
		WithContext("key", key).
		WithContext("value", value).
		Wrap(api.ErrInvalidArgument)
}

// Validate checks every field against what the kernel accepts.
func (s Settings) Validate() error {
	if s.TickFrequency == 0 {
		return invalidSetting(KeyTickFrequency, s.TickFrequency)
	}
	if _, err := rtos.ParseHeapTrackMode(s.HeapTrackMode); err != nil {
		return invalidSetting(KeyHeapTrackMode, s.HeapTrackMode)
	}
	if s.MaxStackSize <= 0 {
		return invalidSetting(KeyMaxStackSize, s.MaxStackSize)
	}
	if s.HistoryDepth <= 0 {
		return invalidSetting(KeyHistoryDepth, s.HistoryDepth)
	}
	if !slices.Contains(logging.ValidLevels(), strings.ToUpper(s.Log.Level)) {
		return invalidSetting(KeyLogLevel, s.Log.Level)
	}
	switch strings.ToLower(s.Log.Format) {
	case logging.FormatJSON, logging.FormatText:
	default:
		return invalidSetting(KeyLogFormat, s.Log.Format)
	}
	return nil
}

// Map flattens s into ConfigStore keys.
func (s Settings) Map() map[string]any {
	return map[string]any{
		KeyTickFrequency: s.TickFrequency,
		KeyHeapTrackMode: s.HeapTrackMode,
		KeyMaxStackSize:  s.MaxStackSize,
		KeyHistoryDepth:  s.HistoryDepth,
		KeyLogLevel:      s.Log.Level,
		KeyLogFormat:     s.Log.Format,
	}
}

// NewLogger builds the kernel logger described by s.
func (s Settings) NewLogger(w io.Writer) *logging.Logger {
	return logging.NewLogger(w, s.Log.Level, s.Log.Format)
}

// SettingsFromMap decodes ConfigStore keys over the defaults. Environment
// overrides do not apply.
func SettingsFromMap(m map[string]any) (Settings, error) {
	v := viper.New()
	setDefaults(v)
	for k, val := range m {
		v.Set(k, val)
	}
	return decode(v)
}

// KernelConfig converts validated settings for rtos.Kernel.Reconfigure.
func (s Settings) KernelConfig(logger *logging.Logger) rtos.Config {
	mode, _ := rtos.ParseHeapTrackMode(s.HeapTrackMode)
	return rtos.Config{
		TickFrequency: s.TickFrequency,
		HeapTrackMode: mode,
		MaxStackSize:  s.MaxStackSize,
		HistoryDepth:  s.HistoryDepth,
		Logger:        logger,
	}
}

// Apply reconfigures k with s. The kernel keeps its logger; only the level
// follows s.
func Apply(k *rtos.Kernel, s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	logger := k.Config().Logger
	logger.SetLevel(s.Log.Level)
	k.Reconfigure(s.KernelConfig(logger))
	return nil
}

// Loader reads Settings and keeps a ConfigStore in sync with the file.
type Loader struct {
	v     *viper.Viper
	path  string
	store *ConfigStore
	log   *logging.Logger

	mu       sync.Mutex
	current  Settings
	onChange []func(Settings)
}

// NewLoader returns a loader for path. An empty path reads only the
// environment and defaults. store may be nil.
func NewLoader(path string, store *ConfigStore) *Loader {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
	}
	return &Loader{
		v:       v,
		path:    path,
		store:   store,
		log:     logging.Default().WithComponent("control"),
		current: DefaultSettings(),
	}
}

// SetLogger replaces the loader's logger.
func (l *Loader) SetLogger(log *logging.Logger) {
	l.log = log.WithComponent("control")
}

// Load reads the settings and publishes them to the store.
func (l *Loader) Load() (Settings, error) {
	if l.path != "" {
		if err := l.v.ReadInConfig(); err != nil {
			return Settings{}, api.NewError(api.ErrCodeNotFound, "cannot read config file").
				WithContext("path", l.path).
				Wrap(err)
		}
	}
	s, err := decode(l.v)
	if err != nil {
		return Settings{}, err
	}
	l.mu.Lock()
	l.current = s
	l.mu.Unlock()
	if l.store != nil {
		l.store.SetConfig(s.Map())
	}
	return s, nil
}

// Current returns the last successfully loaded settings.
func (l *Loader) Current() Settings {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// OnChange registers fn to receive settings after each accepted reload.
func (l *Loader) OnChange(fn func(Settings)) {
	l.mu.Lock()
	l.onChange = append(l.onChange, fn)
	l.mu.Unlock()
}

// Watch reloads the settings whenever the config file is written. It is a
// no-op without a config file.
func (l *Loader) Watch() {
	if l.path == "" {
		return
	}
	l.v.OnConfigChange(l.reload)
	l.v.WatchConfig()
}

func (l *Loader) reload(e fsnotify.Event) {
	if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
		return
	}
	s, err := l.Load()
	if err != nil {
		l.log.Warn("config reload rejected", "path", e.Name, "error", err)
		return
	}
	l.log.Info("config reloaded", "path", e.Name, "heap_track_mode", s.HeapTrackMode, "log_level", s.Log.Level)

	l.mu.Lock()
	fns := append([]func(Settings){}, l.onChange...)
	l.mu.Unlock()
	for _, fn := range fns {
		fn(s)
	}
	TriggerHotReload()
}

// LoadConfig reads settings from path, the environment and defaults.
func LoadConfig(path string) (Settings, error) {
	return NewLoader(path, nil).Load()
}

// SettingsOf reports the live settings of k. The log format is not
// recoverable from a kernel and reads as text.
func SettingsOf(k *rtos.Kernel) Settings {
	cfg := k.Config()
	return Settings{
		TickFrequency: cfg.TickFrequency,
		HeapTrackMode: cfg.HeapTrackMode.String(),
		MaxStackSize:  cfg.MaxStackSize,
		HistoryDepth:  cfg.HistoryDepth,
		Log: LogSettings{
			Level:  cfg.Logger.Level(),
			Format: logging.FormatText,
		},
	}
}
