// cardgen - Headline and body text cards over a template image.
//
// Usage:
//
//	cardgen serve [--config <path>] [--port 10000] [options]
//	cardgen render -o <file> --headline <text> --body <text> [options]
//	cardgen variants [--config <path>]
//	cardgen init [--config cardgen.yaml]
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/xob0t/cardgen/clients/server"
	"github.com/xob0t/cardgen/pkg/config"
	"github.com/xob0t/cardgen/pkg/generator"
	"github.com/xob0t/cardgen/pkg/template"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(os.Args[2:])
	case "render":
		err = runRender(os.Args[2:])
	case "variants":
		err = runVariants(os.Args[2:])
	case "init":
		err = runInit(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fatal(err)
	}
}

// settings holds the flags shared by serve and render. Only flags the user
// set override the loaded configuration.
type settings struct {
	configPath  string
	port        int
	template    string
	outputDir   string
	publicURL   string
	variant     string
	engine      string
	format      string
	fontRegular string
	fontBold    string
}

func (s *settings) register(fs *pflag.FlagSet) {
	fs.StringVarP(&s.configPath, "config", "c", "", "Path to cardgen.yaml")
	fs.IntVarP(&s.port, "port", "p", config.DefaultPort, "Listen port")
	fs.StringVarP(&s.template, "template", "t", config.DefaultTemplatePath, "Background template image")
	fs.StringVar(&s.outputDir, "output-dir", config.DefaultOutputDir, "Directory for saved images (file delivery)")
	fs.StringVar(&s.publicURL, "public-url", "", "Public base URL of saved images")
	fs.StringVarP(&s.variant, "variant", "v", template.DefaultVariant, "Style variant")
	fs.StringVarP(&s.engine, "engine", "e", config.EngineFace, "Text engine: face or vector")
	fs.StringVarP(&s.format, "format", "f", generator.FormatPNG, "Output format: png or tiff")
	fs.StringVar(&s.fontRegular, "font-regular", "", "Regular TTF (default: embedded Go font)")
	fs.StringVar(&s.fontBold, "font-bold", "", "Bold TTF (default: embedded Go font)")
}

// load reads the config file and environment, then applies changed flags.
func (s *settings) load(fs *pflag.FlagSet) (config.Config, error) {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return cfg, err
	}

	if fs.Changed("port") {
		cfg.Port = s.port
	}
	for name, f := range map[string]struct {
		dst *string
		val string
	}{
		"template":     {&cfg.TemplatePath, s.template},
		"output-dir":   {&cfg.OutputDir, s.outputDir},
		"public-url":   {&cfg.PublicBaseURL, s.publicURL},
		"variant":      {&cfg.Variant, s.variant},
		"engine":       {&cfg.Engine, s.engine},
		"format":       {&cfg.Format, s.format},
		"font-regular": {&cfg.Fonts.Regular, s.fontRegular},
		"font-bold":    {&cfg.Fonts.Bold, s.fontBold},
	} {
		if fs.Changed(name) {
			*f.dst = f.val
		}
	}
	return cfg, nil
}

func runServe(args []string) error {
	fs := pflag.NewFlagSet("serve", pflag.ExitOnError)
	var s settings
	s.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := s.load(fs)
	if err != nil {
		return err
	}
	return server.RunServe(cfg, log.Default())
}

func runRender(args []string) error {
	fs := pflag.NewFlagSet("render", pflag.ExitOnError)
	var (
		s        settings
		output   string
		headline string
		body     string
		bodyFile string
	)
	s.register(fs)
	fs.StringVarP(&output, "output", "o", "", "Output file (.png or .tiff)")
	fs.StringVar(&headline, "headline", "", "Headline text")
	fs.StringVar(&body, "body", "", "Body text; separate paragraphs with a blank line")
	fs.StringVar(&bodyFile, "body-file", "", "Read body text from a file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if output == "" {
		return fmt.Errorf("output file is required (-o)")
	}
	if bodyFile != "" {
		data, err := os.ReadFile(bodyFile)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		body = string(data)
	}

	cfg, err := s.load(fs)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	variant, err := cfg.SelectedVariant()
	if err != nil {
		return err
	}
	for _, w := range template.ValidateVariant(variant) {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	fm, err := template.NewFontManager(cfg.Fonts.Regular, cfg.Fonts.Bold)
	if err != nil {
		return fmt.Errorf("fonts: %w", err)
	}
	renderer := template.NewRenderer(cfg.NewEngine(fm), cfg.TemplatePath, filepath.Ext(output))

	fmt.Printf("Rendering variant %s: %s\n", variant.Name, output)
	img, res, err := renderer.Render(variant, headline, body)
	if err != nil {
		return err
	}
	if res.Truncated {
		fmt.Fprintln(os.Stderr, "Warning: body truncated at the bottom reserve")
	}
	if err := generator.Generate(output, img); err != nil {
		return err
	}
	fmt.Printf("Done: %s\n", output)
	return nil
}

func runVariants(args []string) error {
	fs := pflag.NewFlagSet("variants", pflag.ExitOnError)
	var configPath string
	fs.StringVarP(&configPath, "config", "c", "", "Path to cardgen.yaml")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	fmt.Print(template.FormatVariants(cfg.AllVariants()))
	return nil
}

func runInit(args []string) error {
	fs := pflag.NewFlagSet("init", pflag.ExitOnError)
	var out string
	fs.StringVarP(&out, "config", "c", "cardgen.yaml", "Output path for the sample config")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := os.Stat(out); err == nil {
		return fmt.Errorf("%s already exists", out)
	}
	if err := os.WriteFile(out, []byte(template.GetExampleConfig()), 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Printf("Created: %s\n", out)
	fmt.Printf("Run: cardgen serve --config %s\n", out)
	return nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printUsage() {
	fmt.Print(`cardgen - Text cards over a template image

USAGE:
    cardgen serve [options]
    cardgen render -o <file> --headline <text> --body <text> [options]
    cardgen variants [--config <path>]
    cardgen init [--config cardgen.yaml]

SHARED OPTIONS:
    -c, --config <path>      YAML config (env vars and flags override it)
    -t, --template <path>    Background template (default: ./template/template.png)
    -v, --variant <name>     centered | left | published (default: centered)
    -e, --engine <name>      face | vector (default: face)
    -f, --format <name>      png | tiff (default: png)
    --font-regular <path>    Regular TTF (default: embedded Go font)
    --font-bold <path>       Bold TTF (default: embedded Go font)

SERVE:
    -p, --port <n>           Listen port (default: 10000, env PORT)
    --output-dir <path>      Saved images for file delivery (default: ./generated)
    --public-url <url>       Base of returned image URLs

RENDER:
    -o, --output <path>      Output file (.png or .tiff)
    --headline <text>        Headline text
    --body <text>            Body text; blank line separates paragraphs
    --body-file <path>       Read body text from a file

EXAMPLES:
    cardgen init
    cardgen serve --variant published --public-url https://cards.example.com
    cardgen render -o card.png --headline "Hello World" --body-file body.txt
    cardgen variants
`)
}
