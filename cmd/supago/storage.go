package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Transfer bucket objects",
}

var downloadCmd = &cobra.Command{
	Use:   "download <bucket> <object>",
	Short: "Download a public object",
	Args:  cobra.ExactArgs(2),
	Run:   runDownload,
}

var uploadCmd = &cobra.Command{
	Use:   "upload <bucket> <object> <file>",
	Short: "Upload a file as an object",
	Args:  cobra.ExactArgs(3),
	Run:   runUpload,
}

var urlCmd = &cobra.Command{
	Use:   "url <bucket> <object>",
	Short: "Print the public URL of an object",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(newClient().Storage.PublicURL(args[0], args[1]))
	},
}

func init() {
	downloadCmd.Flags().StringP("out", "o", "", "Output path (default: object base name)")
	uploadCmd.Flags().String("content-type", "", "Content type of the object")

	storageCmd.AddCommand(downloadCmd, uploadCmd, urlCmd)
	rootCmd.AddCommand(storageCmd)
}

func runDownload(cmd *cobra.Command, args []string) {
	client := newClient()

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = filepath.Base(args[1])
	}

	if err := client.Storage.SaveToFile(context.Background(), args[0], args[1], out); err != nil {
		log.Fatalf("Download failed: %v", err)
	}
	log.Printf("Saved %s", out)
}

func runUpload(cmd *cobra.Command, args []string) {
	client := newClient()

	data, err := os.ReadFile(args[2])
	if err != nil {
		log.Fatalf("Failed to read %s: %v", args[2], err)
	}

	contentType, _ := cmd.Flags().GetString("content-type")
	if err := client.Storage.Upload(context.Background(), args[0], args[1], data, contentType); err != nil {
		log.Fatalf("Upload failed: %v", err)
	}
	log.Printf("Uploaded %s/%s", args[0], args[1])
}
