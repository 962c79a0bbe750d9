/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "0.1.0"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "bedtale",
	Short: "CLI Bedtime Story Generator",
	Long: `A CLI application that generates a children's bedtime story with an LLM,
evaluates it with a second model call acting as a safety and quality judge,
and refines the story based on the judge's feedback.

Use "bedtale tell --help" for generation options.`,
	Version: version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default $HOME/.bedtale.yaml)")
}

// initConfig reads the config file and binds the environment. Precedence is
// explicit flag > environment > config file.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".bedtale")
	}

	viper.SetEnvPrefix("bedtale")
	viper.AutomaticEnv()

	// The API key also resolves from the conventional OpenAI variable.
	_ = viper.BindEnv("api-key", "OPENAI_API_KEY")

	_ = viper.ReadInConfig()
}
