package commands

import (
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/devicecloud-io/go-devicecloud/api/inventory"
)

var binariesCmd = &cobra.Command{
	Use:   "binaries",
	Short: "Manage the inventory binary repository",
}

var binariesUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a file to the binary repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := os.Open(args[0])
		if err != nil {
			return errors.Wrapf(err, "failed to open %s", args[0])
		}
		defer file.Close()

		binaryType, err := cmd.Flags().GetString("type")
		if err != nil {
			return err
		}

		name := filepath.Base(args[0])
		contentType := mime.TypeByExtension(filepath.Ext(name))
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		uploaded, err := client.Inventory.UploadBinary(cmd.Context(), &inventory.Binary{
			Name:        name,
			Type:        binaryType,
			ContentType: contentType,
		}, file)
		if err != nil {
			return err
		}
		return printJSON(uploaded)
	},
}

var binariesDownloadCmd = &cobra.Command{
	Use:   "download <id>",
	Short: "Download a binary to a local file or stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		content, _, err := client.Inventory.DownloadBinary(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		defer content.Close()

		dst := os.Stdout
		if output != "" {
			dst, err = os.Create(output)
			if err != nil {
				return errors.Wrapf(err, "failed to create %s", output)
			}
			defer dst.Close()
		}

		if _, err := io.Copy(dst, content); err != nil {
			return errors.Wrap(err, "failed to write binary content")
		}
		return nil
	},
}

var binariesReplaceCmd = &cobra.Command{
	Use:   "replace <id> <file>",
	Short: "Replace the content of a stored binary",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := os.Open(args[1])
		if err != nil {
			return errors.Wrapf(err, "failed to open %s", args[1])
		}
		defer file.Close()

		contentType := mime.TypeByExtension(filepath.Ext(args[1]))
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		replaced, err := client.Inventory.ReplaceBinary(cmd.Context(), args[0], contentType, file)
		if err != nil {
			return err
		}
		return printJSON(replaced)
	},
}

var binariesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a binary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		if err := client.Inventory.DeleteBinary(cmd.Context(), args[0]); err != nil {
			return err
		}
		printf("deleted binary %s", args[0])
		return nil
	},
}

func init() {
	binariesUploadCmd.Flags().String("type", "", "binary type (e.g. c8y_Firmware)")
	binariesDownloadCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")

	binariesCmd.AddCommand(binariesUploadCmd)
	binariesCmd.AddCommand(binariesDownloadCmd)
	binariesCmd.AddCommand(binariesReplaceCmd)
	binariesCmd.AddCommand(binariesDeleteCmd)
	rootCmd.AddCommand(binariesCmd)
}
