// parser.go - Sample configuration for cardgen init.
package template

// GetExampleConfig returns a sample cardgen.yaml.
func GetExampleConfig() string {
	return `# cardgen configuration. Environment variables and flags override these values.
port: 10000
template_path: ./template/template.png
output_dir: ./generated
public_base_url: ""   # defaults to http://localhost:<port>
variant: centered     # centered | left | published, or a name defined below
engine: face          # face | vector
format: png           # png | tiff

fonts:
  regular: ""         # custom TTF; empty uses the embedded Go font
  bold: ""

variants:
  # Overrides are merged onto the built-in variant of the same name.
  centered:
    layout:
      headline_y: 260
  # New names start from the "centered" variant.
  footer-heavy:
    delivery: file
    fonts:
      body:
        size: 24
    layout:
      bottom_reserve: 260
`
}
