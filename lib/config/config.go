package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/go-i2p/go-gtime/lib/util"
	"github.com/go-i2p/logger"
	"github.com/samber/oops"
	"github.com/spf13/viper"
)

var (
	CfgFile string
	log     = logger.GetGoI2PLogger()
)

const GTIME_BASE_DIR = ".go-gtime"

// InitConfig wires viper to the config file, applies defaults and creates the
// default file when it does not exist yet.
func InitConfig() error {
	if CfgFile != "" {
		viper.SetConfigFile(CfgFile)
	} else {
		viper.AddConfigPath(BuildDirPath())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	setDefaults()

	return handleConfigFile()
}

func setDefaults() {
	d := Defaults()

	viper.SetDefault("clock.source", d.Clock.Source)

	viper.SetDefault("format.layout", d.Format.Layout)

	viper.SetDefault("ntp.servers", d.NTP.Servers)
	viper.SetDefault("ntp.query_frequency", d.NTP.QueryFrequency.Std().String())
	viper.SetDefault("ntp.concurring_servers", d.NTP.ConcurringServers)
	viper.SetDefault("ntp.timeout", d.NTP.Timeout.Std().String())
	viper.SetDefault("ntp.max_variance", d.NTP.MaxVariance.Std().String())

	viper.SetDefault("skew.max", d.Skew.Max.Std().String())

	viper.SetDefault("rpc.address", d.RPC.Address)
	viper.SetDefault("rpc.password", d.RPC.Password)
	viper.SetDefault("rpc.token_expiration", d.RPC.TokenExpiration.Std().String())
	viper.SetDefault("rpc.use_https", d.RPC.UseHTTPS)
	viper.SetDefault("rpc.cert_file", d.RPC.CertFile)
	viper.SetDefault("rpc.key_file", d.RPC.KeyFile)
}

func createDefaultConfig(defaultConfigDir string) error {
	defaultConfigFile := filepath.Join(defaultConfigDir, "config.yaml")
	// The file holds rpc.password; keep the directory private to the user.
	if err := os.MkdirAll(defaultConfigDir, 0o700); err != nil {
		return oops.Wrapf(err, "could not create config directory %s", defaultConfigDir)
	}

	if err := viper.SafeWriteConfigAs(defaultConfigFile); err != nil {
		return oops.Wrapf(err, "could not write default config file %s", defaultConfigFile)
	}

	log.WithFields(logger.Fields{
		"at":   "createDefaultConfig",
		"path": defaultConfigFile,
	}).Debug("created default configuration")
	return nil
}

func handleConfigFile() error {
	if CfgFile != "" && !util.CheckFileExists(CfgFile) {
		return oops.Errorf("config file %s is not found", CfgFile)
	}

	err := viper.ReadInConfig()
	if err == nil {
		log.WithField("path", viper.ConfigFileUsed()).Debug("using config file")
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) || CfgFile != "" {
		return oops.Wrapf(err, "error reading config file")
	}
	return createDefaultConfig(BuildDirPath())
}

// BuildDirPath returns $HOME/.go-gtime.
func BuildDirPath() string {
	return filepath.Join(util.UserHome(), GTIME_BASE_DIR)
}
