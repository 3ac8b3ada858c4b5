package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rtzll/ytscribe/internal"
)

// metadataCmd represents the metadata command
var metadataCmd = &cobra.Command{
	Use:   "metadata ID...",
	Short: "Get metadata for YouTube videos",
	Example: `  # Get metadata for a video
  ytscribe metadata tAP1eZYEuKA
  ytscribe metadata "https://www.youtube.com/watch?v=tAP1eZYEuKA"

  # Several videos at once, saved to a file
  ytscribe metadata tAP1eZYEuKA dQw4w9WgXcQ -o metadata.json

  # Format output as pretty JSON
  ytscribe metadata tAP1eZYEuKA --pretty`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]string, len(args))
		for i, arg := range args {
			ids[i] = internal.NormalizeVideoID(arg)
		}

		apiKey, _ := cmd.Flags().GetString("api-key")
		if apiKey == "" {
			apiKey = config.YouTubeAPIKey
		}
		if apiKey == "" {
			if err := ensureYtDlp(cmd.Context()); err != nil {
				return err
			}
		}

		fetcher, err := newMetadataFetcher(cmd.Context(), apiKey)
		if err != nil {
			return err
		}

		var found map[string]*internal.VideoMetadata
		if api, ok := fetcher.(*internal.DataAPI); ok {
			found, err = api.Lookup(cmd.Context(), ids)
			if err != nil {
				return err
			}
		} else {
			found = make(map[string]*internal.VideoMetadata, len(ids))
			for _, id := range ids {
				metadata, err := fetcher.Metadata(cmd.Context(), id)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
					continue
				}
				found[id] = metadata
			}
		}

		results := make([]*internal.VideoMetadata, 0, len(ids))
		for _, id := range ids {
			if metadata, ok := found[id]; ok {
				results = append(results, metadata)
			} else if _, isAPI := fetcher.(*internal.DataAPI); isAPI {
				fmt.Fprintf(os.Stderr, "Warning: %v for %s: video is private, deleted or does not exist\n", internal.ErrMetadataUnavailable, id)
			}
		}
		if len(results) == 0 {
			return fmt.Errorf("%w for all %d video(s)", internal.ErrMetadataUnavailable, len(ids))
		}

		var payload any = results
		if len(args) == 1 {
			payload = results[0]
		}

		var jsonData []byte
		pretty, _ := cmd.Flags().GetBool("pretty")
		if pretty {
			jsonData, err = json.MarshalIndent(payload, "", "  ")
		} else {
			jsonData, err = json.Marshal(payload)
		}
		if err != nil {
			return fmt.Errorf("error converting metadata to JSON: %w", err)
		}

		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile != "" {
			return internal.WriteFileAtomic(outputFile, jsonData)
		}

		fmt.Println(string(jsonData))
		return nil
	},
}

func init() {
	metadataCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	metadataCmd.Flags().Bool("pretty", false, "Format output as pretty JSON")
	metadataCmd.Flags().String("api-key", "", "YouTube Data API key (default: YT_API_KEY, else yt-dlp)")
	rootCmd.AddCommand(metadataCmd)
}
