package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// OrganizationConfig is the hotel profile printed on receipts.
type OrganizationConfig struct {
	Name    string `mapstructure:"name"`
	GST     string `mapstructure:"gst"`
	Address string `mapstructure:"address"`
	Phone   string `mapstructure:"phone"`
	Email   string `mapstructure:"email"`
}

// ReceiptConfig controls receipt presentation.
type ReceiptConfig struct {
	Currency     string `mapstructure:"currency"`
	FooterNotes  string `mapstructure:"footerNotes"`
	PrimaryColor string `mapstructure:"primaryColor"`
}

type ProfileConfig struct {
	Organization OrganizationConfig `mapstructure:"organization"`
	Receipt      ReceiptConfig      `mapstructure:"receipt"`
}

func DefaultProfileConfig() ProfileConfig {
	return ProfileConfig{
		Organization: OrganizationConfig{
			Name:    "Grand Hotel & Restaurant",
			GST:     "29ABCDE1234F1Z5",
			Address: "123 MG Road, Bangalore, Karnataka - 560001",
			Phone:   "+91-80-12345678",
			Email:   "info@grandhotel.com",
		},
		Receipt: ReceiptConfig{
			Currency:     "INR",
			FooterNotes:  "Thank you for dining with us!",
			PrimaryColor: "#b45309",
		},
	}
}

type OrganizationConfigHolder struct {
	current atomic.Value // holds ProfileConfig
}

func NewOrganizationConfigHolder(cfg Config, log *zap.Logger) (*OrganizationConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("hotelbill")
	v.SetConfigType("yml")
	if dir := strings.TrimSpace(cfg.OrganizationConfigDir); dir != "" {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath("/etc/hotelbill")
	v.AddConfigPath(".")

	return newOrganizationConfigHolder(v, log.Named("config.organization"))
}

func newOrganizationConfigHolder(v *viper.Viper, log *zap.Logger) (*OrganizationConfigHolder, error) {
	defaults := DefaultProfileConfig()
	v.SetDefault("organization.name", defaults.Organization.Name)
	v.SetDefault("organization.gst", defaults.Organization.GST)
	v.SetDefault("organization.address", defaults.Organization.Address)
	v.SetDefault("organization.phone", defaults.Organization.Phone)
	v.SetDefault("organization.email", defaults.Organization.Email)
	v.SetDefault("receipt.currency", defaults.Receipt.Currency)
	v.SetDefault("receipt.footerNotes", defaults.Receipt.FooterNotes)
	v.SetDefault("receipt.primaryColor", defaults.Receipt.PrimaryColor)

	fileLoaded := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		fileLoaded = false
	}

	var cfg ProfileConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := validateProfileConfig(cfg); err != nil {
		return nil, err
	}

	holder := &OrganizationConfigHolder{}
	holder.current.Store(cfg)

	if !fileLoaded {
		log.Debug("profile config file not found, using defaults")
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated ProfileConfig
		if err := v.Unmarshal(&updated); err != nil {
			log.Warn("profile config reload failed", zap.Error(err))
			return
		}
		if err := validateProfileConfig(updated); err != nil {
			log.Warn("invalid profile config ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("profile config reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *OrganizationConfigHolder) Get() ProfileConfig {
	return h.current.Load().(ProfileConfig)
}

func validateProfileConfig(cfg ProfileConfig) error {
	if strings.TrimSpace(cfg.Organization.Name) == "" {
		return errors.New("organization.name cannot be empty")
	}
	if strings.TrimSpace(cfg.Receipt.Currency) == "" {
		return errors.New("receipt.currency cannot be empty")
	}
	return nil
}
