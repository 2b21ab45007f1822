package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileSystem is the file access LoadConfig needs; tests substitute it.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

type osFileSystem struct{}

func (osFileSystem) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LoadEnv adds the file's variables without overriding the environment.
func (osFileSystem) LoadEnv(path string) error { return godotenv.Load(path) }

// LoaderConfig collects the LoadConfig options.
type LoaderConfig struct {
	FileSystem FileSystem
	// ConfigFile and EnvFile skip the search when set.
	ConfigFile string
	EnvFile    string
	// EnvAliases maps extra environment variables to config keys, for
	// example SESSION_NAME to auth.session_name.
	EnvAliases map[string]string
	Defaults   map[string]any
}

type LoaderOption func(*LoaderConfig)

func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvAliases binds additional variable names. The derived name
// (AUTH_SESSION_NAME) wins over an alias when both are set.
func WithEnvAliases(aliases map[string]string) LoaderOption {
	return func(lc *LoaderConfig) {
		if lc.EnvAliases == nil {
			lc.EnvAliases = make(map[string]string, len(aliases))
		}
		for env, key := range aliases {
			lc.EnvAliases[env] = key
		}
	}
}

// WithDefault sets the value used when neither a file nor the environment
// provides key.
func WithDefault(key string, value any) LoaderOption {
	return func(lc *LoaderConfig) {
		if lc.Defaults == nil {
			lc.Defaults = make(map[string]any)
		}
		lc.Defaults[key] = value
	}
}

// LoadConfig fills cfg, a pointer to a struct with mapstructure tags, from
// (lowest to highest precedence) defaults, config.yml and the environment.
// A .env file is loaded into the environment first. Every leaf key is bound
// to its upper-snake variable: auth.session_name reads AUTH_SESSION_NAME.
func LoadConfig(serviceName string, cfg any, opts ...LoaderOption) error {
	lc := LoaderConfig{FileSystem: osFileSystem{}}
	for _, opt := range opts {
		opt(&lc)
	}
	configFile, envFile := lc.resolve(serviceName)

	v := viper.New()
	for k, val := range lc.Defaults {
		v.SetDefault(k, val)
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", configFile, err)
		}
	}
	if envFile != "" {
		if err := lc.FileSystem.LoadEnv(envFile); err != nil {
			return fmt.Errorf("load env %s: %w", envFile, err)
		}
	}
	if err := bindEnv(v, reflect.TypeOf(cfg), lc.EnvAliases); err != nil {
		return err
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("decode config for %s: %w", serviceName, err)
	}
	return nil
}

// resolve returns the explicit paths when they exist, else the first
// existing file in the search paths.
func (lc *LoaderConfig) resolve(serviceName string) (configFile, envFile string) {
	pick := func(explicit string, candidates []string) string {
		if explicit != "" {
			candidates = []string{explicit}
		}
		for _, p := range candidates {
			if lc.FileSystem.Exists(p) {
				return p
			}
		}
		return ""
	}
	return pick(lc.ConfigFile, configSearchPaths(serviceName)), pick(lc.EnvFile, envSearchPaths(serviceName))
}

func configSearchPaths(serviceName string) []string {
	return []string{
		"./cmd/" + serviceName + "/config.yml",
		"../cmd/" + serviceName + "/config.yml",
		"../../cmd/" + serviceName + "/config.yml",
		"./config.yml",
	}
}

func envSearchPaths(serviceName string) []string {
	var paths []string
	for _, name := range []string{".env." + serviceName, ".env"} {
		paths = append(paths, "./cmd/"+serviceName+"/"+name, "./"+name)
	}
	return paths
}

func bindEnv(v *viper.Viper, t reflect.Type, aliases map[string]string) error {
	envs := make(map[string][]string)
	for _, key := range leafKeys(t, "") {
		envs[key] = []string{EnvName(key)}
	}
	for env, key := range aliases {
		envs[key] = append(envs[key], env)
	}
	for key, names := range envs {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	return nil
}

// EnvName returns the environment variable bound to a dotted config key.
func EnvName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// leafKeys lists the dotted keys of every non-struct field of t, following
// mapstructure names and ",squash".
func leafKeys(t reflect.Type, prefix string) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		if prefix == "" {
			return nil
		}
		return []string{prefix}
	}

	var keys []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "-" {
			continue
		}
		if strings.Contains(opts, "squash") {
			keys = append(keys, leafKeys(f.Type, prefix)...)
			continue
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		if prefix != "" {
			name = prefix + "." + name
		}
		keys = append(keys, leafKeys(f.Type, name)...)
	}
	return keys
}
