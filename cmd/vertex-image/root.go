package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opark001/vertex-gemini-web/internal/aiclient"
	"github.com/opark001/vertex-gemini-web/internal/config"
	"github.com/opark001/vertex-gemini-web/internal/constants"
)

const defaultPrompt = "선명하고 고해상도의 당근 이미지를 생성해줘. 정사각형(1024x1024 느낌), 스튜디오 라이팅, 부드러운 그림자, 흰 배경."

type options struct {
	outDir   string
	prefix   string
	model    string
	location string
	project  string
	input    string
	resize   int
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "vertex-image [prompt...]",
		Short:         "Generate an image with Gemini on Vertex AI and save it",
		Long:          "Sends the prompt (or a default carrot prompt) to the image model and writes the first returned image to the output directory.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadDotEnv()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("location") {
				opts.location = envOr("global", constants.EnvVertexLocation, constants.EnvLocation)
			}
			if !cmd.Flags().Changed("model") {
				opts.model = envOr(constants.DefaultImageModel, constants.EnvVertexImageModel)
			}
			if !cmd.Flags().Changed("project") {
				opts.project = envOr("", constants.EnvGoogleCloudProject, constants.EnvGCloudProject, constants.EnvProjectID)
			}
			prompt := strings.TrimSpace(strings.Join(args, " "))
			if prompt == "" {
				prompt = defaultPrompt
			}
			gen := aiclient.NewVertexClient(aiclient.VertexConfig{
				ProjectID:  opts.project,
				Location:   opts.location,
				ImageModel: opts.model,
			})
			path, mime, err := run(cmd.Context(), gen, prompt, opts)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "Image generation failed:", describe(err))
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved image to %s (%s)\n", path, mime)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.outDir, "out", "o", "output", "directory to write the image to")
	f.StringVar(&opts.prefix, "prefix", "carrot", "file name prefix")
	f.StringVar(&opts.model, "model", constants.DefaultImageModel, "image model id")
	f.StringVar(&opts.location, "location", "global", "Vertex AI location")
	f.StringVar(&opts.project, "project", "", "Google Cloud project id (default: env or application default credentials)")
	f.StringVarP(&opts.input, "input", "i", "", "optional image file to edit")
	f.IntVar(&opts.resize, "resize", 0, "shrink the result to fit an NxN box (PNG output)")
	return cmd
}

func run(ctx context.Context, gen aiclient.Generator, prompt string, opts *options) (string, string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req := aiclient.ImageRequest{Prompt: prompt}
	if opts.input != "" {
		b64, mime, err := readInput(opts.input)
		if err != nil {
			return "", "", err
		}
		req.InputBase64, req.InputMimeType = b64, mime
	}
	res, err := gen.GenerateImage(ctx, req)
	if err != nil {
		return "", "", err
	}
	return saveImage(res.Images[0], opts.outDir, opts.prefix, opts.resize, nowStamp())
}

func envOr(def string, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return def
}

// describe prefers the upstream response body when there is one.
func describe(err error) string {
	switch d := aiclient.Details(err).(type) {
	case string:
		return d
	default:
		return fmt.Sprintf("%s", d)
	}
}
