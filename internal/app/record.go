package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/presenttv/client/internal/models"
	"github.com/presenttv/client/internal/present"
	"github.com/presenttv/client/internal/transport"
)

const objectPrefix = "s3://"

// recordingSummary is printed once all segments have been handled.
type recordingSummary struct {
	Video           models.Video
	PlaylistSession models.PlaylistSession
	Appended        int
}

func (c *cli) recordCommand() *cobra.Command {
	var title string
	var archive bool
	var drainTimeout time.Duration
	cmd := &cobra.Command{
		Use:   "record SEGMENT...",
		Short: "Create a live video and append media segments to it in order",
		Long: "Create a live video and append media segments to it in order.\n" +
			"Segments are local file paths, or s3://KEY for objects in $PRESENT_SEGMENT_BUCKET.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			segments, err := c.segmentFiles(args)
			if err != nil {
				return err
			}

			sc, err := c.session(cmd.Context())
			if err != nil {
				return err
			}

			recorder := present.NewRecorder(c.deps.Client, sc)
			video, err := recorder.Create(cmd.Context(), title)
			if err != nil {
				return err
			}
			c.logger.Info("recording started", "videoId", video.ID, "segments", len(segments))

			var archiver present.SegmentArchiver
			if archive {
				if c.deps.Segments == nil {
					return errors.New("--archive needs PRESENT_SEGMENT_BUCKET")
				}
				archiver = c.deps.Segments
			}

			uploader := present.NewSegmentUploader(recorder, archiver, present.UploaderConfig{
				QueueSize:     c.cfg.UploadQueue,
				ArchivePrefix: c.cfg.ObjectStore.ArchivePrefix,
			}, c.logger)

			var enqueueErr error
			for _, segment := range segments {
				if enqueueErr = uploader.Enqueue(cmd.Context(), segment); enqueueErr != nil {
					break
				}
			}

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(cmd.Context()), drainTimeout)
			defer cancel()
			shutdownErr := uploader.Shutdown(shutdownCtx)

			summary := recordingSummary{Appended: uploader.Appended()}
			summary.Video, _ = recorder.Video()
			summary.PlaylistSession, _ = recorder.PlaylistSession()
			if err := writeJSON(cmd.OutOrStdout(), summary); err != nil {
				return err
			}
			return errors.Join(enqueueErr, shutdownErr)
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "Video title")
	cmd.Flags().BoolVar(&archive, "archive", false, "Copy appended segments to the segment bucket")
	cmd.Flags().DurationVar(&drainTimeout, "drain-timeout", 10*time.Minute, "How long to wait for queued segments")
	return cmd
}

// segmentFiles turns command arguments into multipart attachments.
func (c *cli) segmentFiles(args []string) ([]transport.File, error) {
	files := make([]transport.File, 0, len(args))
	for _, arg := range args {
		if key, ok := strings.CutPrefix(arg, objectPrefix); ok {
			if c.deps.Segments == nil {
				return nil, fmt.Errorf("segment %s: PRESENT_SEGMENT_BUCKET is not configured", arg)
			}
			file, err := c.deps.Segments.Attachment(present.MediaSegmentField, key)
			if err != nil {
				return nil, fmt.Errorf("segment %s: %w", arg, err)
			}
			files = append(files, file)
			continue
		}
		files = append(files, transport.FileFromPath(present.MediaSegmentField, arg))
	}
	return files, nil
}
