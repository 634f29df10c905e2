package main

import (
	"log"
	"os"

	"github.com/carlmjohnson/versioninfo"

	"github.com/iancoleman/strcase"
	"github.com/urfave/cli/v2"

	"github.com/skytiler/toastel/norm"
	"github.com/skytiler/toastel/samplers"
	"github.com/skytiler/toastel/tileio"
	"github.com/skytiler/toastel/toast"
	"github.com/skytiler/toastel/wtml"
)

const SOURCE string = `sourceMap`
const OUTPUT string = `outputDir`
const DEPTH string = `depth`
const NOMERGE string = `noMerge`
const TILESIZE string = `tilesize`
const WTMLFILE string = `wtmlFile`
const WTMLBASEURL string = `wtmlBaseUrl`
const IMAGESET string = `imageset`
const VMIN string = `vmin`
const VMAX string = `vmax`
const SCALING string = `scaling`
const BIAS string = `bias`
const CONTRAST string = `contrast`

//nolint:funlen
func main() {
	app := cli.NewApp()
	app.Name = "toastel"
	app.Usage = "A Golang TOAST tile pyramid builder"
	app.Version = versioninfo.Short()

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:     SOURCE,
			Aliases:  []string{"s"},
			Usage:    "Source map (PNG or JPEG, equirectangular projection, twice as wide as tall)",
			Required: true,
			EnvVars:  []string{strcase.ToScreamingSnake(SOURCE)},
		},
		&cli.StringFlag{
			Name:     OUTPUT,
			Aliases:  []string{"o"},
			Usage:    "Output directory for the tile hierarchy. Tiles are written as <depth>/<y>/<y>_<x>.png",
			Required: true,
			EnvVars:  []string{strcase.ToScreamingSnake(OUTPUT)},
		},
		&cli.IntFlag{
			Name:     DEPTH,
			Aliases:  []string{"d"},
			Usage:    "Deepest tessellation level. 4^depth tiles are created at that level",
			Required: true,
			EnvVars:  []string{strcase.ToScreamingSnake(DEPTH)},
		},
		&cli.BoolFlag{
			Name:     NOMERGE,
			Usage:    "Sample every tile directly instead of downsampling coarser tiles from their children",
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(NOMERGE)},
		},
		&cli.IntFlag{
			Name:     TILESIZE,
			Usage:    "Tile side in pixels, a power of two",
			Value:    256,
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(TILESIZE)},
		},
		&cli.StringFlag{
			Name:     WTMLFILE,
			Aliases:  []string{"w"},
			Usage:    "Also write a WTML record describing the pyramid to this path",
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(WTMLFILE)},
		},
		&cli.StringFlag{
			Name:     WTMLBASEURL,
			Usage:    "Base URL for the tile template in the WTML record. Defaults to the output directory",
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(WTMLBASEURL)},
		},
		&cli.StringFlag{
			Name:     IMAGESET,
			Usage:    "JSON file with descriptive WTML fields (folderName, name, bandPass, credits, ...)",
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(IMAGESET)},
		},
		&cli.Float64Flag{
			Name:     VMIN,
			Usage:    "Data value mapped to black. Setting vmin/vmax enables intensity normalization",
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(VMIN)},
		},
		&cli.Float64Flag{
			Name:     VMAX,
			Usage:    "Data value mapped to white",
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(VMAX)},
		},
		&cli.StringFlag{
			Name:     SCALING,
			Usage:    "Intensity scaling curve: linear, log, sqrt, arcsinh or power",
			Value:    string(norm.Linear),
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(SCALING)},
		},
		&cli.Float64Flag{
			Name:     BIAS,
			Usage:    "Where to put middle grey, relative to vmin..vmax (0-1)",
			Value:    0.5,
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(BIAS)},
		},
		&cli.Float64Flag{
			Name:     CONTRAST,
			Usage:    "How fast to ramp from black to white",
			Value:    1,
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(CONTRAST)},
		},
	}

	app.Action = func(c *cli.Context) error {
		data, err := tileio.LoadImage(c.String(SOURCE))
		if err != nil {
			return err
		}
		sampler, err := samplers.Cartesian(data)
		if err != nil {
			return err
		}
		if c.IsSet(VMIN) || c.IsSet(VMAX) {
			sampler, err = samplers.Normalized(sampler, norm.Params{
				VMin:     c.Float64(VMIN),
				VMax:     c.Float64(VMAX),
				Bias:     c.Float64(BIAS),
				Contrast: c.Float64(CONTRAST),
				Scaling:  norm.Scaling(c.String(SCALING)),
			})
			if err != nil {
				return err
			}
		}

		depth := c.Int(DEPTH)
		if wtmlPath := c.String(WTMLFILE); wtmlPath != "" {
			imageSet := wtml.ImageSet{}
			if confPath := c.String(IMAGESET); confPath != "" {
				confJSON, err := os.ReadFile(confPath)
				if err != nil {
					return err
				}
				imageSet, err = wtml.Load(confJSON)
				if err != nil {
					return err
				}
			}
			baseURL := c.String(WTMLBASEURL)
			if baseURL == "" {
				baseURL = c.String(OUTPUT)
			}
			if err = wtml.WriteFile(wtmlPath, imageSet, baseURL, depth); err != nil {
				return err
			}
		}

		merge := toast.AverageMerge()
		if c.Bool(NOMERGE) {
			merge = toast.NoMerge
		}

		log.Println("=== start tiling ===")
		err = toast.BuildPyramid(sampler, &tileio.DirTarget{BaseDir: c.String(OUTPUT)}, toast.Options{
			Depth:    depth,
			TileSize: c.Int(TILESIZE),
			Merge:    merge,
		})
		if err != nil {
			return err
		}
		log.Println("=== done tiling ===")
		return nil
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
