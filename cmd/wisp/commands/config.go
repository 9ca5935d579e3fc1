package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wisp-ai/wisp/pkg/cli"
	"github.com/wisp-ai/wisp/pkg/jsontime"
	"github.com/wisp-ai/wisp/pkg/profile"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long: `Manage wisp CLI configuration.

Configuration is stored in ~/.wisp/config.yaml.
Multiple contexts can be defined for different accounts or environments.`,
}

var configAddContextCmd = &cobra.Command{
	Use:   "add-context <name>",
	Short: "Add a new context",
	Long: `Add a new context with API credentials.

Examples:
  wisp config add-context myctx --api-key KEY
  wisp config add-context myctx --api-key KEY --persona storyteller --tier plus`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		apiKey, _ := cmd.Flags().GetString("api-key")
		endpoint, _ := cmd.Flags().GetString("endpoint")
		model, _ := cmd.Flags().GetString("model")
		persona, _ := cmd.Flags().GetString("persona")
		tier, _ := cmd.Flags().GetString("tier")
		sampling, _ := cmd.Flags().GetDuration("sampling-interval")

		if apiKey == "" {
			return fmt.Errorf("api-key is required")
		}
		if persona != "" {
			if _, err := profile.ParsePersona(persona); err != nil {
				return err
			}
		}
		if tier != "" {
			if _, err := profile.ParseTier(tier); err != nil {
				return err
			}
		}

		ctx := &cli.Context{
			Name:     name,
			APIKey:   apiKey,
			Endpoint: endpoint,
			Model:    model,
			Persona:  persona,
			Tier:     tier,
		}
		if sampling > 0 {
			ctx.SamplingInterval = jsontime.FromDuration(sampling)
		}

		cfg := getConfig()
		if err := cfg.AddContext(name, ctx); err != nil {
			return err
		}

		cli.PrintSuccess("Context '%s' added successfully", name)
		return nil
	},
}

var configDeleteContextCmd = &cobra.Command{
	Use:   "delete-context <name>",
	Short: "Delete a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		cfg := getConfig()
		if err := cfg.DeleteContext(name); err != nil {
			return err
		}
		cli.PrintSuccess("Context '%s' deleted", name)
		return nil
	},
}

var configUseContextCmd = &cobra.Command{
	Use:   "use-context <name>",
	Short: "Set the default context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		cfg := getConfig()
		if err := cfg.UseContext(name); err != nil {
			return err
		}
		cli.PrintSuccess("Switched to context '%s'", name)
		return nil
	},
}

var configGetContextCmd = &cobra.Command{
	Use:   "get-context",
	Short: "Show the current context",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if cfg.CurrentContext == "" {
			fmt.Println("No current context set")
		} else {
			fmt.Println(cfg.CurrentContext)
		}
		return nil
	},
}

var configListContextsCmd = &cobra.Command{
	Use:   "list-contexts",
	Short: "List all contexts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if len(cfg.Contexts) == 0 {
			fmt.Println("No contexts configured")
			return nil
		}

		for name := range cfg.Contexts {
			marker := "  "
			if name == cfg.CurrentContext {
				marker = "* "
			}
			fmt.Printf("%s%s\n", marker, name)
		}
		return nil
	},
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "View full configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()

		// API keys are masked for display.
		type viewContext struct {
			Name             string `yaml:"name" json:"name"`
			APIKey           string `yaml:"api_key,omitempty" json:"api_key,omitempty"`
			Endpoint         string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
			Model            string `yaml:"model,omitempty" json:"model,omitempty"`
			Persona          string `yaml:"persona,omitempty" json:"persona,omitempty"`
			Tier             string `yaml:"tier,omitempty" json:"tier,omitempty"`
			SamplingInterval string `yaml:"sampling_interval,omitempty" json:"sampling_interval,omitempty"`
		}
		view := struct {
			CurrentContext string                  `yaml:"current_context,omitempty" json:"current_context,omitempty"`
			Contexts       map[string]*viewContext `yaml:"contexts,omitempty" json:"contexts,omitempty"`
		}{
			CurrentContext: cfg.CurrentContext,
			Contexts:       make(map[string]*viewContext, len(cfg.Contexts)),
		}
		for name, ctx := range cfg.Contexts {
			vc := &viewContext{
				Name:     ctx.Name,
				APIKey:   cli.MaskAPIKey(ctx.APIKey),
				Endpoint: ctx.Endpoint,
				Model:    ctx.Model,
				Persona:  ctx.Persona,
				Tier:     ctx.Tier,
			}
			if ctx.SamplingInterval != nil {
				vc.SamplingInterval = ctx.SamplingInterval.Duration().String()
			}
			view.Contexts[name] = vc
		}

		return outputResult(view, isJSONOutput())
	},
}

func init() {
	configAddContextCmd.Flags().StringP("api-key", "k", "", "API key (required)")
	configAddContextCmd.Flags().StringP("endpoint", "u", "", "WebSocket endpoint override")
	configAddContextCmd.Flags().StringP("model", "m", "", "Model id for the setup handshake")
	configAddContextCmd.Flags().String("persona", "", "Persona profile (assistant, storyteller, navigator)")
	configAddContextCmd.Flags().String("tier", "", "Service tier (free, plus, pro)")
	configAddContextCmd.Flags().Duration("sampling-interval", time.Duration(0), "Minimum spacing between forwarded audio chunks")

	configCmd.AddCommand(configAddContextCmd)
	configCmd.AddCommand(configDeleteContextCmd)
	configCmd.AddCommand(configUseContextCmd)
	configCmd.AddCommand(configGetContextCmd)
	configCmd.AddCommand(configListContextsCmd)
	configCmd.AddCommand(configViewCmd)
}
