package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var rpcCmd = &cobra.Command{
	Use:   "rpc <function>",
	Short: "Call a database function",
	Args:  cobra.ExactArgs(1),
	Run:   runRpc,
}

func init() {
	rpcCmd.Flags().StringP("params", "p", "", "Function arguments as a JSON object")
	rootCmd.AddCommand(rpcCmd)
}

func runRpc(cmd *cobra.Command, args []string) {
	client := newClient()

	var params map[string]any
	if raw, _ := cmd.Flags().GetString("params"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &params); err != nil {
			log.Fatalf("Invalid --params: %v", err)
		}
	}

	rows, err := client.DB.Rpc(args[0], params).Execute(context.Background())
	if err != nil {
		log.Fatalf("RPC failed: %v", err)
	}

	out, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		log.Fatalf("Failed to render result: %v", err)
	}
	fmt.Println(string(out))
}
