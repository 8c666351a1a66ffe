package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/TwigBush/uma-go/internal/uma"
)

func cmdTicket() *cobra.Command {
	c := &cobra.Command{
		Use:   "ticket",
		Short: "Permission ticket helpers for dev flows",
	}
	c.AddCommand(cmdTicketNew())
	return c
}

// cmdTicketNew registers resources at the permission endpoint and prints
// the resulting ticket.
func cmdTicketNew() *cobra.Command {
	var baseURL string
	var resourceSpecs []string

	c := &cobra.Command{
		Use:   "new",
		Short: "Request a permission ticket for one or more resources",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(resourceSpecs) == 0 {
				return fmt.Errorf("at least one --resource id[=scope1,scope2] is required")
			}

			var resources []uma.Resource
			for _, spec := range resourceSpecs {
				id, scopes, _ := strings.Cut(spec, "=")
				res := uma.Resource{ID: id}
				if scopes != "" {
					res.Scopes = strings.Split(scopes, ",")
				}
				resources = append(resources, res)
			}

			body, err := json.Marshal(resources)
			if err != nil {
				return err
			}

			client := &http.Client{Timeout: 10 * time.Second}
			resp, err := client.Post(baseURL+"/permission", "application/json", bytes.NewReader(body))
			if err != nil {
				return fmt.Errorf("permission request failed: %w", err)
			}
			defer resp.Body.Close()

			out, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusCreated {
				return fmt.Errorf("permission endpoint returned %d: %s", resp.StatusCode, out)
			}
			fmt.Println(string(bytes.TrimSpace(out)))
			return nil
		},
	}
	c.Flags().StringVar(&baseURL, "base-url", "http://localhost:8086", "authorization server base URL")
	c.Flags().StringArrayVar(&resourceSpecs, "resource", nil, "resource id with optional scopes: id=scope1,scope2 (repeatable)")
	return c
}
