package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/nerdneilsfield/go-faker-file/pkg/storage"
)

// GenerationConfig 生成行为的默认值
type GenerationConfig struct {
	DefaultCount      int `mapstructure:"default_count"`       // 容器默认内部文件数
	MaxNestingDepth   int `mapstructure:"max_nesting_depth"`   // 容器最大嵌套深度
	DefaultMaxNbChars int `mapstructure:"default_max_nb_chars"` // 0 表示使用各格式自己的默认值
}

// Config 保存生成器的所有配置
type Config struct {
	Locale   string `mapstructure:"locale"`
	Seed     uint64 `mapstructure:"seed"` // 0 表示随机
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`

	Storage    storage.Config   `mapstructure:"storage"`
	Generation GenerationConfig `mapstructure:"generation"`

	// Generators 按格式族（image、pdf、mp3）的生成策略默认选项
	Generators map[string]map[string]any `mapstructure:"generators"`
}

// LoadConfig 从文件加载配置，找不到配置文件时使用默认值
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// 设置默认值
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}

		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigName(".fakefile")
		v.SetConfigType("yaml")
	}

	// 读取环境变量，如 FAKEFILE_SEED、FAKEFILE_STORAGE_BACKEND
	v.SetEnvPrefix("FAKEFILE")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// 族名中可能含点号，按键单独读取
	generatorsRaw := v.GetStringMap("generators")
	if len(generatorsRaw) > 0 {
		config.Generators = make(map[string]map[string]any, len(generatorsRaw))
		for family := range generatorsRaw {
			config.Generators[family] = v.GetStringMap("generators." + family)
		}
	}

	if config.Generation.MaxNestingDepth <= 0 {
		config.Generation.MaxNestingDepth = defaultMaxNestingDepth
	}

	return &config, nil
}

// defaultConfigPath 返回 $HOME/.fakefile.yaml
func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".fakefile.yaml"), nil
}

// SaveConfig 将配置保存到文件
func SaveConfig(config *Config, configPath string) error {
	if configPath == "" {
		p, err := defaultConfigPath()
		if err != nil {
			return err
		}
		configPath = p
	}

	v := viper.New()
	v.SetConfigFile(configPath)

	if err := v.MergeConfigMap(structToMap(config)); err != nil {
		return err
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	return v.WriteConfig()
}

// InitConfig 写入默认配置并返回写入的路径；文件已存在且未指定 force 时报错
func InitConfig(configPath string, force bool) (string, error) {
	if configPath == "" {
		p, err := defaultConfigPath()
		if err != nil {
			return "", err
		}
		configPath = p
	}
	if _, err := os.Stat(configPath); err == nil && !force {
		return "", fmt.Errorf("config file %s already exists", configPath)
	}
	if err := SaveConfig(NewDefaultConfig(), configPath); err != nil {
		return "", err
	}
	return configPath, nil
}

// Redacted 返回用于展示的配置，密钥与密码被遮蔽
func (c *Config) Redacted() map[string]interface{} {
	m := structToMap(c)
	st := m["storage"].(map[string]interface{})
	mask(st["s3"].(map[string]interface{}), "secret_key")
	mask(st["sftp"].(map[string]interface{}), "password")
	return m
}

func mask(m map[string]interface{}, key string) {
	if v, _ := m[key].(string); v != "" {
		m[key] = "******"
	}
}

// NewDefaultConfig 创建一个新的默认配置
func NewDefaultConfig() *Config {
	return &Config{
		Locale:   defaultLocale,
		LogLevel: "info",
		Storage: storage.Config{
			Backend: "filesystem",
			RelPath: storage.DefaultRelPath,
		},
		Generation: GenerationConfig{
			DefaultCount:    defaultCount,
			MaxNestingDepth: defaultMaxNestingDepth,
		},
		Generators: map[string]map[string]any{},
	}
}
