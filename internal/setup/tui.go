package setup

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/steelsmol/subwatch/config"
	"github.com/vedhavyas/go-subkey/v2"
	"gopkg.in/yaml.v3"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

// RunTUI launches the terminal configuration wizard and writes the
// resulting config to config.gen.yaml.
func RunTUI() error {
	var (
		nodeURL         string
		webhookURL      string
		pollIntervalStr string
		chartDaysStr    string
		confirm         bool
	)

	// defaults
	nodeURL = "ws://127.0.0.1:9944"
	pollIntervalStr = "5m"
	chartDaysStr = "7"

	// step 1: welcome
	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(headerStyle.Render("SUBWATCH CONFIG WIZARD"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Let's get your wallets watched in style.\n"))

	// node
	fmt.Println(stepStyle.Render("STEP 1: CHAIN NODE"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Node RPC URL").
				Description("Websocket endpoint of a Subspace node (e.g. ws://127.0.0.1:9944)").
				Value(&nodeURL).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("node URL cannot be empty")
					}
					return nil
				}),
		),
	).Run()
	if err != nil {
		return err
	}

	// webhook
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("SUBWATCH CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 2: DISCORD"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Discord Webhook URL").
				Description("Leave empty to supply it via the DISCORD_WEBHOOK_URL env variable").
				Value(&webhookURL).
				EchoMode(huh.EchoModePassword),
		),
	).Run()
	if err != nil {
		return err
	}

	// timing
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("SUBWATCH CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 3: TIMING"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Poll Interval").
				Description("Duration string (e.g. 30s, 1m, 5m)").
				Value(&pollIntervalStr).
				Validate(func(s string) error {
					_, err := time.ParseDuration(s)
					return err
				}),
			huh.NewInput().
				Title("Chart Lookback Days").
				Description("History window for the balance chart (1-90)").
				Value(&chartDaysStr).
				Validate(validateChartDays),
		),
	).Run()
	if err != nil {
		return err
	}

	// wallets
	var wallets []config.WalletEntry
	for {
		fmt.Print("\033[H\033[2J")
		fmt.Println(headerStyle.Render("SUBWATCH CONFIG WIZARD"))
		fmt.Println(stepStyle.Render(fmt.Sprintf("STEP 4: WALLET #%d", len(wallets)+1)))

		var address, name string
		var more bool
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Wallet Address").
					Description("SS58 encoded account address").
					Value(&address).
					Validate(validateAddress),
				huh.NewInput().
					Title("Wallet Name").
					Description("Label used in notifications (e.g. validator-01)").
					Value(&name).
					Validate(func(s string) error {
						if s == "" {
							return fmt.Errorf("name cannot be empty")
						}
						return nil
					}),
				huh.NewConfirm().
					Title("Add another wallet?").
					Value(&more),
			),
		).Run()
		if err != nil {
			return err
		}

		wallets = append(wallets, config.WalletEntry{Address: address, Name: name})
		if !more {
			break
		}
	}

	// confirmation
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("SUBWATCH CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("FINAL CONFIRMATION"))

	summary := fmt.Sprintf(
		"Node: %s\nInterval: %s\nChart days: %s\nWallets: %d\n",
		nodeURL, pollIntervalStr, chartDaysStr, len(wallets),
	)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save and start").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}

	if !confirm {
		return fmt.Errorf("setup cancelled by user")
	}

	chartDays, _ := strconv.Atoi(chartDaysStr)

	f := config.File{
		NodeURL:         nodeURL,
		WebhookURL:      webhookURL,
		PollIntervalStr: pollIntervalStr,
		ChartDays:       chartDays,
		Wallets:         wallets,
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to generate yaml: %w", err)
	}

	filename := "config.gen.yaml"
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(fmt.Sprintf("\n✓ Configuration saved to %s\nStarting monitor...", filename)))
	time.Sleep(1500 * time.Millisecond) // small pause to read success message
	return nil
}

func validateChartDays(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("must be a whole number")
	}
	if n < 1 || n > 90 {
		return fmt.Errorf("must be between 1 and 90")
	}
	return nil
}

func validateAddress(s string) error {
	if s == "" {
		return fmt.Errorf("address cannot be empty")
	}
	if _, _, err := subkey.SS58Decode(s); err != nil {
		return fmt.Errorf("not a valid SS58 address")
	}
	return nil
}
