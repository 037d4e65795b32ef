package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/nerdneilsfield/go-faker-file/pkg/composer"
	"github.com/nerdneilsfield/go-faker-file/pkg/storage"
)

const (
	defaultLocale          = "en_US"
	defaultCount           = 5
	defaultMaxNestingDepth = composer.DefaultMaxDepth
)

// envKeyReplacer 把 storage.backend 映射为 FAKEFILE_STORAGE_BACKEND
var envKeyReplacer = strings.NewReplacer(".", "_")

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("locale", defaultLocale)
	v.SetDefault("seed", 0)
	v.SetDefault("debug", false)
	v.SetDefault("log_level", "info")

	v.SetDefault("storage.backend", "filesystem")
	v.SetDefault("storage.root", "")
	v.SetDefault("storage.rel_path", storage.DefaultRelPath)
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.bucket", "")
	v.SetDefault("storage.s3.region", "")
	v.SetDefault("storage.s3.access_key", "")
	v.SetDefault("storage.s3.secret_key", "")
	v.SetDefault("storage.s3.use_path_style", false)
	v.SetDefault("storage.sftp.host", "")
	v.SetDefault("storage.sftp.port", 22)
	v.SetDefault("storage.sftp.user", "")
	v.SetDefault("storage.sftp.password", "")
	v.SetDefault("storage.sftp.root", "")
	v.SetDefault("storage.sftp.known_hosts", "")
	v.SetDefault("storage.sftp.insecure_ignore_host_key", false)

	v.SetDefault("generation.default_count", defaultCount)
	v.SetDefault("generation.max_nesting_depth", defaultMaxNestingDepth)
	v.SetDefault("generation.default_max_nb_chars", 0)
}

// structToMap 将结构体转换为map
func structToMap(config *Config) map[string]interface{} {
	s := config.Storage
	return map[string]interface{}{
		"locale":    config.Locale,
		"seed":      config.Seed,
		"debug":     config.Debug,
		"log_level": config.LogLevel,
		"storage": map[string]interface{}{
			"backend":  s.Backend,
			"root":     s.Root,
			"rel_path": s.RelPath,
			"s3": map[string]interface{}{
				"endpoint":       s.S3.Endpoint,
				"bucket":         s.S3.Bucket,
				"region":         s.S3.Region,
				"access_key":     s.S3.AccessKey,
				"secret_key":     s.S3.SecretKey,
				"use_path_style": s.S3.UsePathStyle,
				"rel_path":       s.S3.RelPath,
			},
			"sftp": map[string]interface{}{
				"host":                     s.SFTP.Host,
				"port":                     s.SFTP.Port,
				"user":                     s.SFTP.User,
				"password":                 s.SFTP.Password,
				"root":                     s.SFTP.Root,
				"rel_path":                 s.SFTP.RelPath,
				"host_key":                 s.SFTP.HostKey,
				"known_hosts":              s.SFTP.KnownHosts,
				"insecure_ignore_host_key": s.SFTP.InsecureIgnoreHostKey,
			},
		},
		"generation": map[string]interface{}{
			"default_count":        config.Generation.DefaultCount,
			"max_nesting_depth":    config.Generation.MaxNestingDepth,
			"default_max_nb_chars": config.Generation.DefaultMaxNbChars,
		},
		"generators": generatorsToMap(config.Generators),
	}
}

func generatorsToMap(generators map[string]map[string]any) map[string]interface{} {
	out := make(map[string]interface{}, len(generators))
	for family, options := range generators {
		m := make(map[string]interface{}, len(options))
		for k, v := range options {
			m[k] = v
		}
		out[family] = m
	}
	return out
}
