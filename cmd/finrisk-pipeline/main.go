/*
 * Copyright (C) 2024 Finscope, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/joho/godotenv"
	prom "github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/finscope/finrisk-pipeline/pkg/config"
	"github.com/finscope/finrisk-pipeline/pkg/operational"
	"github.com/finscope/finrisk-pipeline/pkg/pipeline"
	"github.com/finscope/finrisk-pipeline/pkg/prometheus"
)

var (
	buildVersion = "unknown"
	buildDate    = "unknown"
	cfgFile      string
	logLevel     string
	envPrefix    = "FINRISK"
	cfg          *config.Config
)

// rootCmd represents the root command
var rootCmd = &cobra.Command{
	Use:   "finrisk-pipeline",
	Short: "Detect statistical anomalies in financial datasets and write a ranked report",
	Run: func(_ *cobra.Command, _ []string) {
		run()
	},
}

// initConfig uses the config file and ENV variables if set.
func initConfig() {
	v := viper.New()
	v.SetConfigType("yaml")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(".finrisk-pipeline")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	cfgErr := v.ReadInConfig()

	bindFlags(rootCmd, v)
	initLogger()

	if cfgErr != nil {
		log.Errorf("Read config error: %v", cfgErr)
		os.Exit(1)
	}

	var err error
	cfg, err = config.ParseConfig(v)
	if err != nil {
		log.Errorf("Parse config error: %v", err)
		os.Exit(1)
	}
	if cfg.LogLevel != "" && !rootCmd.Flags().Changed("log-level") {
		logLevel = cfg.LogLevel
		initLogger()
	}
}

func initLogger() {
	ll, err := log.ParseLevel(logLevel)
	if err != nil {
		ll = log.ErrorLevel
	}
	log.SetLevel(ll)
	log.SetFormatter(&log.TextFormatter{DisableColors: false, FullTimestamp: true, PadLevelText: true, DisableQuote: true})
}

func dumpConfig(cfg *config.Config) {
	var json = jsoniter.ConfigCompatibleWithStandardLibrary
	configAsJSON, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		panic(fmt.Sprintf("error dumping config: %v", err))
	}
	log.Infof("Using configuration:\n%s", configAsJSON)
}

func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			_ = cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val))
		}
	})
}

func run() {
	log.Infof("Starting finrisk-pipeline: version=%s, date=%s", buildVersion, buildDate)
	if log.IsLevelEnabled(log.DebugLevel) {
		dumpConfig(cfg)
	}

	registry := prom.NewRegistry()
	opMetrics := operational.NewMetrics(registry)
	if cfg.MetricsPort > 0 {
		srv := prometheus.StartServerAsync(cfg.MetricsPort, registry)
		defer func() {
			_ = srv.Shutdown(context.Background())
		}()
	}

	p, err := pipeline.NewPipeline(cfg, opMetrics)
	if err != nil {
		log.Errorf("failed to initialize pipeline: %v", err)
		os.Exit(1)
	}
	if err := p.Run(context.Background()); err != nil {
		log.Errorf("report run failed: %v", err)
		os.Exit(1)
	}
}

func main() {
	// Optional .env next to the binary, ignored when absent.
	_ = godotenv.Load()

	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.finrisk-pipeline.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warning, error, fatal, panic)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
