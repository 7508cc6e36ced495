package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Manage clients",
}

var clientCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new client",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		if err := st.CreateClient(args[0]); err != nil {
			return err
		}
		fmt.Printf("%s created client %s\n", successStyle.Render("✓"), args[0])
		return nil
	},
}

var clientListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clients",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		names, err := st.ClientNames()
		if err != nil {
			return err
		}
		def, err := st.DefaultClient()
		if err != nil {
			return err
		}

		if len(names) == 0 {
			fmt.Println(faintStyle.Render("no clients yet"))
			return nil
		}
		for _, name := range names {
			if name == def {
				fmt.Printf("%s %s\n", name, faintStyle.Render("(default)"))
			} else {
				fmt.Println(name)
			}
		}
		return nil
	},
}

var clientDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a client and all its data",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if !flagYes {
			return fmt.Errorf("deleting a client removes its database and findings tree; re-run with --yes to confirm")
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		if err := st.DeleteClient(args[0]); err != nil {
			return err
		}
		fmt.Printf("%s deleted client %s\n", successStyle.Render("✓"), args[0])
		return nil
	},
}

var clientDefaultCmd = &cobra.Command{
	Use:   "default [<name>]",
	Short: "Show or set the default client",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}

		if len(args) == 0 {
			def, err := st.DefaultClient()
			if err != nil {
				return err
			}
			if def == "" {
				fmt.Println(faintStyle.Render("no default client set"))
				return nil
			}
			fmt.Println(def)
			return nil
		}

		if err := st.SetDefaultClient(args[0]); err != nil {
			return err
		}
		fmt.Printf("%s default client is now %s\n", successStyle.Render("✓"), args[0])
		return nil
	},
}

func init() {
	clientDeleteCmd.Flags().BoolVar(&flagYes, "yes", false, "Confirm the deletion")
	clientCmd.AddCommand(clientCreateCmd, clientListCmd, clientDeleteCmd, clientDefaultCmd)
	rootCmd.AddCommand(clientCmd)
}
