package main

import (
	"fmt"
	"image"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/image-filter-mcp/internal/distance"
	"github.com/ironsheep/image-filter-mcp/internal/imaging"
	"github.com/ironsheep/image-filter-mcp/internal/morphology"
	"github.com/ironsheep/image-filter-mcp/internal/raster"
)

func newConvolveCmd(a *app) *cobra.Command {
	var (
		in, out, kernel, policy string
		shape                   string
		borderValue, sigma      float64
		radius                  int
		threshold               uint8
		gray, excludeSelf       bool
		stretch                 bool
	)

	cmd := &cobra.Command{
		Use:   "convolve",
		Short: "Filter an image file with a smoothing, gradient, median or morphology kernel",
		Example: `  image-filter-mcp convolve --in photo.png --out blurred.png --kernel gaussian --sigma 2
  image-filter-mcp convolve --in scan.png --out clean.png --kernel median --radius 2 --border mirror`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePolicy(policy, borderValue)
			if err != nil {
				return err
			}
			img, err := imaging.NewImageCache(1).Load(in)
			if err != nil {
				return err
			}
			o := imaging.FilterOptions{Policy: p, Gray: gray, Workers: a.cfg.Workers, Sink: &a.sink}

			var result image.Image
			switch kernel {
			case imaging.BlurBox, imaging.BlurGaussian, imaging.BlurGaussian2D:
				buf, err := imaging.BlurImage(img, kernel, radius, sigma, excludeSelf, o)
				if err != nil {
					return err
				}
				result, err = render(cmd.OutOrStdout(), buf, stretch)
				if err != nil {
					return err
				}
			case "sobel":
				buf, err := imaging.SobelImage(img, o)
				if err != nil {
					return err
				}
				result, err = render(cmd.OutOrStdout(), buf, true)
				if err != nil {
					return err
				}
			case "median":
				buf, err := imaging.MedianImage(img, radius, o)
				if err != nil {
					return err
				}
				if result, err = imaging.FromSamples(buf); err != nil {
					return err
				}
			case "maxima":
				buf, err := imaging.MaximaImage(img, threshold, o)
				if err != nil {
					return err
				}
				if result, err = imaging.FromSamples(buf); err != nil {
					return err
				}
			default:
				op, err := morphology.ParseOp(kernel)
				if err != nil {
					return fmt.Errorf("unknown kernel %q (want box, gaussian, gaussian2d, sobel, median, dilate, erode, open, close or maxima)", kernel)
				}
				se, err := morphology.Element(shape, radius)
				if err != nil {
					return err
				}
				buf, err := imaging.MorphologyImage(img, op, se, threshold, o)
				if err != nil {
					return err
				}
				if result, err = imaging.FromSamples(buf); err != nil {
					return err
				}
			}

			a.log.Info("convolve",
				zap.String("in", in),
				zap.String("kernel", kernel),
				zap.Stringer("border", p.Kind),
				zap.Int("radius", radius))
			return save(cmd.OutOrStdout(), result, out)
		},
	}

	f := cmd.Flags()
	f.StringVar(&in, "in", "", "input image")
	f.StringVar(&out, "out", "", "output image; the extension picks the format")
	f.StringVar(&kernel, "kernel", imaging.BlurBox, "box, gaussian, gaussian2d, sobel, median, dilate, erode, open, close or maxima")
	f.IntVar(&radius, "radius", 1, "window radius for box, median and morphology; sigma = radius/2 for gaussian")
	f.StringVar(&shape, "shape", "square", "morphology element: square, cross or disk")
	f.Uint8Var(&threshold, "threshold", 128, "morphology: gray levels above this are foreground; maxima: peaks must exceed it")
	f.Float64Var(&sigma, "sigma", 0, "gaussian standard deviation")
	f.StringVar(&policy, "border", "copy", "border policy: constant, copy or mirror")
	f.Float64Var(&borderValue, "border-value", 0, "fill value for the constant border")
	f.BoolVar(&gray, "gray", false, "convert to grayscale first")
	f.BoolVar(&excludeSelf, "exclude-self", false, "box only: leave the center pixel out of its mean")
	f.BoolVar(&stretch, "stretch", false, "rescale the output range to 0-255")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newDistanceCmd(a *app) *cobra.Command {
	var (
		in, out, metricName, edge string
		threshold                 uint8
		orthogonal, diagonal      float64
		complement, stretch       bool
	)

	cmd := &cobra.Command{
		Use:   "distance",
		Short: "Write the distance of every pixel to the nearest dark pixel",
		Example: `  image-filter-mcp distance --in mask.png --out field.png --metric euclidean
  image-filter-mcp distance --in mask.png --out field.png --metric custom --orthogonal 3 --diagonal 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var metric distance.Metric
			var err error
			if metricName == "custom" {
				metric, err = distance.Custom(orthogonal, diagonal)
			} else {
				metric, err = distance.ParseMetric(metricName)
			}
			if err != nil {
				return err
			}
			opts := distance.Options{Metric: metric, Complement: complement, Reporter: &a.sink}
			switch edge {
			case "background":
				opts.Edge = distance.EdgeBackground
			case "open":
				opts.Edge = distance.EdgeOpen
			default:
				return fmt.Errorf("unknown edge mode %q (want background or open)", edge)
			}

			img, err := imaging.NewImageCache(1).Load(in)
			if err != nil {
				return err
			}
			field, err := imaging.DistanceImage(img, threshold, opts)
			if err != nil {
				return err
			}
			result, err := render(cmd.OutOrStdout(), field, stretch)
			if err != nil {
				return err
			}

			a.log.Info("distance",
				zap.String("in", in),
				zap.Stringer("metric", metric),
				zap.Uint8("threshold", threshold))
			return save(cmd.OutOrStdout(), result, out)
		},
	}

	f := cmd.Flags()
	f.StringVar(&in, "in", "", "input image")
	f.StringVar(&out, "out", "", "output image; the extension picks the format")
	f.StringVar(&metricName, "metric", "chamfer", "chamfer, cityblock, chessboard, chamfer34, euclidean or custom")
	f.Uint8Var(&threshold, "threshold", 128, "gray levels at or below this are background")
	f.Float64Var(&orthogonal, "orthogonal", 1, "custom metric: horizontal and vertical step cost")
	f.Float64Var(&diagonal, "diagonal", 1.5, "custom metric: diagonal step cost")
	f.StringVar(&edge, "edge", "background", "outside the image counts as background, or is open")
	f.BoolVar(&complement, "complement", false, "measure distance to the nearest light pixel instead")
	f.BoolVar(&stretch, "stretch", true, "rescale the output range to 0-255")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

// render prints the raw range of buf and converts it to an 8-bit image.
func render(w io.Writer, buf *raster.Buffer[float64], stretch bool) (image.Image, error) {
	lo, hi := buf.MinMax()
	fmt.Fprintf(w, "range: %g .. %g\n", lo, hi)
	return imaging.Render(buf, stretch)
}

func save(w io.Writer, img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return err
	}
	b := img.Bounds()
	fmt.Fprintf(w, "wrote %s (%dx%d)\n", path, b.Dx(), b.Dy())
	return nil
}
