package config

import "github.com/urfave/cli/v3"

// Download holds the download request flags
type Download struct {
	URL        string
	Resolution string
	OutputPath string
	Filename   string
}

// Flags returns CLI flags for the download request
func (c *Download) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "url",
			Usage:       "YouTube watch URL of the video",
			Required:    true,
			Destination: &c.URL,
		},
		&cli.StringFlag{
			Name:        "resolution",
			Aliases:     []string{"r"},
			Usage:       "Resolution of the video, e.g. 720p (default: highest available)",
			Destination: &c.Resolution,
			Sources:     cli.EnvVars("YTDL_RESOLUTION"),
		},
		&cli.StringFlag{
			Name:        "output-path",
			Aliases:     []string{"o"},
			Usage:       "Directory to save the video in (default: current directory)",
			Destination: &c.OutputPath,
			Sources:     cli.EnvVars("YTDL_OUTPUT_PATH"),
		},
		&cli.StringFlag{
			Name:        "filename",
			Aliases:     []string{"f"},
			Usage:       "Name of the saved file (default: video title)",
			Destination: &c.Filename,
		},
	}
}
