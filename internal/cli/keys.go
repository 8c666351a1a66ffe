package cli

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TwigBush/uma-go/internal/keys"
	"github.com/TwigBush/uma-go/internal/uma"
)

func cmdKeys() *cobra.Command {
	c := &cobra.Command{
		Use:   "keys",
		Short: "Manage tenant and signing keys",
	}
	c.AddCommand(cmdKeysNew())
	return c
}

func cmdKeysNew() *cobra.Command {
	var dir string
	var tenantDomain string
	var signing bool

	c := &cobra.Command{
		Use:   "new",
		Short: "Generate an RSA key as a JWK file",
		RunE: func(cmd *cobra.Command, args []string) error {
			name := tenantDomain
			if signing {
				name = "signing"
			}

			fmt.Printf("Generating RSA-2048 key for %q...\n", name)
			key, err := rsa.GenerateKey(rand.Reader, 2048)
			if err != nil {
				return fmt.Errorf("generate key: %w", err)
			}

			path, err := keys.Generate(dir, name, key)
			if err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", path)
			return nil
		},
	}
	c.Flags().StringVar(&dir, "dir", "keys", "directory for key files")
	c.Flags().StringVar(&tenantDomain, "tenant", uma.SuperTenantDomain, "tenant domain the key decrypts claims tokens for")
	c.Flags().BoolVar(&signing, "signing", false, "generate the RPT signing key instead of a tenant key")
	return c
}
