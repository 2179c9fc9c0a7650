package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
)

func keygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a random AES-256 key and IV",
		Long: `Generates fresh random key material for peers that exchange raw
keys instead of a shared passphrase.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := make([]byte, 32)
			if _, err := rand.Read(key); err != nil {
				return err
			}
			iv := make([]byte, 16)
			if _, err := rand.Read(iv); err != nil {
				return err
			}
			fmt.Printf("key: %s\n", hex.EncodeToString(key))
			fmt.Printf("iv:  %s\n", hex.EncodeToString(iv))
			return nil
		},
	}
}
