package main

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/zunderbolt/codec"
	"github.com/hupe1980/zunderbolt/resource"
	"github.com/hupe1980/zunderbolt/stream"
	"github.com/hupe1980/zunderbolt/textreader"
)

var errUsage = errors.New("wrong number of arguments")

func args(c *cli.Context, n int) ([]string, error) {
	if c.NArg() != n {
		return nil, fmt.Errorf("%s: %w, usage: %s %s", c.Command.Name, errUsage, c.Command.Name, c.Command.ArgsUsage)
	}
	return c.Args()[:n], nil
}

// openStream opens path and logs a FileIsTooLarge warning instead of failing.
func openStream(e *env, path string, mode stream.OpenMode, opts ...stream.Option) (*stream.FileStream, error) {
	fs, err := stream.OpenFile(path, mode, e.streamOptions(opts...)...)
	if stream.IsWarning(err) {
		e.logger.Warn("opened with warning", "path", path, "error", err)
		return fs, nil
	}
	return fs, err
}

// discard is a copy destination that only counts.
type discard struct{ n int64 }

func (d *discard) Length() int64 { return 0 }

func (d *discard) SetPosition(int64) {}

func (d *discard) Write(p []byte) (int, error) {
	d.n += int64(len(p))
	return len(p), nil
}

func copyCommand(e *env) cli.Command {
	return cli.Command{
		Name:      "copy",
		Usage:     "Copy a byte range between files in batches",
		ArgsUsage: "SRC DST",
		Flags: []cli.Flag{
			cli.IntFlag{Name: "batch", Usage: "Batch size in bytes (default from config)"},
			cli.Int64Flag{Name: "src-offset", Usage: "Source offset"},
			cli.Int64Flag{Name: "dst-offset", Usage: "Destination offset"},
			cli.Int64Flag{Name: "count", Usage: "Bytes to copy (-1 copies to the end of the source)", Value: -1},
			cli.BoolFlag{Name: "verify", Usage: "Re-read the destination and compare CRC-32C checksums"},
		},
		Action: func(c *cli.Context) error {
			paths, err := args(c, 2)
			if err != nil {
				return err
			}
			ctx := context.Background()

			src, err := openStream(e, paths[0], stream.Open, stream.WithReadOnly())
			if err != nil {
				return err
			}
			defer src.Close()

			dst, err := openStream(e, paths[1], stream.OpenOrCreate)
			if err != nil {
				return err
			}

			srcOff, dstOff := c.Int64("src-offset"), c.Int64("dst-offset")
			count := c.Int64("count")
			if count < 0 {
				count = src.Length() - srcOff
			}

			var copts []stream.CopyOption
			if c.IsSet("batch") {
				copts = append(copts, stream.WithBatchSize(c.Int("batch")))
			}
			if c.Bool("verify") {
				copts = append(copts, stream.WithChecksum(true))
			}

			var res stream.CopyResult
			// Copy rejects offsets at the end of the source, an empty source
			// included, so an in-range empty copy is done here.
			emptyInRange := count == 0 &&
				srcOff >= 0 && srcOff <= src.Length() &&
				dstOff >= 0 && dstOff <= dst.Length()
			if !emptyInRange {
				res, err = src.CopyTo(ctx, dst, srcOff, dstOff, count, e.copyOptions(copts...)...)
				if err != nil {
					_ = dst.Close()
					return err
				}
			}
			if err := dst.Close(); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "copied %d bytes in %d batches\n", res.Bytes, res.Batches)

			if !c.Bool("verify") || res.Bytes == 0 {
				return nil
			}
			return verify(ctx, e, paths[1], dstOff, res, c)
		},
	}
}

func verify(ctx context.Context, e *env, path string, offset int64, want stream.CopyResult, c *cli.Context) error {
	dst, err := openStream(e, path, stream.Open, stream.WithReadOnly())
	if err != nil {
		return err
	}
	defer dst.Close()

	got, err := dst.CopyTo(ctx, &discard{}, offset, 0, want.Bytes, e.copyOptions(stream.WithChecksum(true))...)
	if err != nil {
		return err
	}
	if got.Checksum != want.Checksum {
		return fmt.Errorf("verify %s: checksum %08x, want %08x", path, got.Checksum, want.Checksum)
	}
	fmt.Fprintf(c.App.Writer, "verified crc32c %08x\n", got.Checksum)
	return nil
}

func catCommand(e *env) cli.Command {
	return cli.Command{
		Name:      "cat",
		Usage:     "Print the lines of a text file in any UTF encoding",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			cli.IntFlag{Name: "lines", Usage: "Stop after this many lines (0 prints all)"},
		},
		Action: func(c *cli.Context) error {
			paths, err := args(c, 1)
			if err != nil {
				return err
			}
			fs, err := openStream(e, paths[0], stream.Open, stream.WithReadOnly())
			if err != nil {
				return err
			}
			defer fs.Close()

			r, err := textreader.New(fs)
			if err != nil {
				return err
			}
			limit := c.Int("lines")
			printed := 0
			for line, err := range r.Lines() {
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, line)
				printed++
				if limit > 0 && printed >= limit {
					break
				}
			}
			return nil
		},
	}
}

func detectCommand(e *env) cli.Command {
	return cli.Command{
		Name:      "detect",
		Usage:     "Print the text encoding of a file",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			paths, err := args(c, 1)
			if err != nil {
				return err
			}
			fs, err := openStream(e, paths[0], stream.Open, stream.WithReadOnly())
			if err != nil {
				return err
			}
			defer fs.Close()

			r, err := textreader.New(fs)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, r.Encoding())
			return nil
		},
	}
}

func compressCommand(e *env, compress bool) cli.Command {
	name, usage := "compress", "Compress a file"
	if !compress {
		name, usage = "decompress", "Decompress a file"
	}
	return cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "SRC DST",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "codec",
				Usage: fmt.Sprintf("Codec %v", codec.Names()),
				Value: codec.Default.Name(),
			},
		},
		Action: func(c *cli.Context) error {
			paths, err := args(c, 2)
			if err != nil {
				return err
			}
			cd, err := codec.ByName(c.String("codec"))
			if err != nil {
				return err
			}

			src, err := openStream(e, paths[0], stream.Open, stream.WithReadOnly())
			if err != nil {
				return err
			}
			defer src.Close()
			dst, err := openStream(e, paths[1], stream.CreateOrOverwrite)
			if err != nil {
				return err
			}

			in := resource.NewRateLimitedReader(context.Background(), src, e.controller)
			var n int64
			if compress {
				n, err = codec.Compress(dst, in, cd)
			} else {
				n, err = codec.Decompress(dst, in, cd)
			}
			if err != nil {
				_ = dst.Close()
				return err
			}
			read, written := n, dst.Length()
			if !compress {
				read, written = src.Length(), n
			}
			if err := dst.Close(); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "%s: %d -> %d bytes (%s)\n", name, read, written, cd.Name())
			return nil
		},
	}
}

func configCommand(e *env) cli.Command {
	return cli.Command{
		Name:  "config",
		Usage: "Print the effective configuration as YAML",
		Action: func(c *cli.Context) error {
			out, err := yaml.Marshal(e.cfg)
			if err != nil {
				return err
			}
			_, err = c.App.Writer.Write(out)
			return err
		},
	}
}
