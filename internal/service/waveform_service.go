package service

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/google/uuid"

	"clipforge/internal/dto"
	apperrors "clipforge/pkg/errors"
	"clipforge/pkg/util"
)

const (
	defaultWaveformBuckets = 200
	maxWaveformBuckets     = 4000
	waveformSampleRate     = 8000
)

// Waveform computes normalized [min,max] peak pairs for timeline drawing.
// The input is decoded to a low-rate mono WAV first so bucket math runs on
// raw PCM samples.
func (s Service) Waveform(req dto.WaveformReq) (*dto.WaveformResData, error) {
	buckets := req.Buckets
	if buckets <= 0 {
		buckets = defaultWaveformBuckets
	}
	if buckets > maxWaveformBuckets {
		buckets = maxWaveformBuckets
	}
	if _, err := os.Stat(req.Path); err != nil {
		return nil, apperrors.WrapWithDetail(apperrors.CodeFileNotFound, "File not found",
			fmt.Sprintf("media file %q does not exist", req.Path), err)
	}

	wavPath := filepath.Join(s.TempDir, fmt.Sprintf("waveform_%s.wav", shortId(uuid.NewString())))
	if err := util.ExtractWavAudio(req.Path, wavPath, waveformSampleRate); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeAudioExtract, "Audio extraction failed", err)
	}
	defer os.Remove(wavPath)

	peaks, duration, err := decodeWaveformPeaks(wavPath, buckets)
	if err != nil {
		return nil, err
	}

	return &dto.WaveformResData{
		Path:     req.Path,
		Buckets:  buckets,
		Duration: duration,
		Peaks:    peaks,
	}, nil
}

// decodeWaveformPeaks reads 16-bit PCM in chunks and tracks the extreme
// samples per bucket, normalized to -1..1. Multi-channel input uses the
// first channel only; the extraction step produces mono anyway.
func decodeWaveformPeaks(wavPath string, buckets int) ([][2]float64, float64, error) {
	file, err := os.Open(wavPath)
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.CodeFileNotFound, "File not found", err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return nil, 0, apperrors.WrapWithDetail(apperrors.CodeAudioExtract,
			"Audio extraction failed", wavPath+" is not a valid WAV file", nil)
	}
	if decoder.WavAudioFormat != 1 || decoder.BitDepth != 16 {
		return nil, 0, apperrors.WrapWithDetail(apperrors.CodeAudioExtract,
			"Audio extraction failed",
			fmt.Sprintf("unsupported WAV shape: format %d, %d-bit", decoder.WavAudioFormat, decoder.BitDepth), nil)
	}

	format := decoder.Format()
	if format == nil || format.NumChannels == 0 || format.SampleRate == 0 {
		return nil, 0, apperrors.WrapWithDetail(apperrors.CodeAudioExtract,
			"Audio extraction failed", "missing WAV format header", nil)
	}
	channels := format.NumChannels

	length, err := decoder.Duration()
	if err != nil || length <= 0 {
		return nil, 0, apperrors.WrapWithDetail(apperrors.CodeAudioExtract,
			"Audio extraction failed", "could not read WAV duration", err)
	}
	totalFrames := int(math.Round(length.Seconds() * float64(format.SampleRate)))
	if totalFrames <= 0 {
		return nil, 0, apperrors.WrapWithDetail(apperrors.CodeAudioExtract,
			"Audio extraction failed", "WAV file contains no samples", nil)
	}

	mins := make([]float64, buckets)
	maxs := make([]float64, buckets)
	for i := range mins {
		mins[i] = math.Inf(1)
		maxs[i] = math.Inf(-1)
	}

	chunk := 8192
	if rem := chunk % channels; rem != 0 {
		chunk += channels - rem
	}
	buf := &audio.IntBuffer{Format: format, Data: make([]int, chunk)}

	frame := 0
	for {
		n, err := decoder.PCMBuffer(buf)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, apperrors.Wrap(apperrors.CodeAudioExtract, "Audio extraction failed", err)
		}
		if n == 0 {
			break
		}

		samples := buf.Data[:n]
		for i := 0; i+channels <= len(samples); i += channels {
			idx := frame * buckets / totalFrames
			if idx >= buckets {
				idx = buckets - 1
			}
			v := float64(samples[i]) / 32768.0
			if v < mins[idx] {
				mins[idx] = v
			}
			if v > maxs[idx] {
				maxs[idx] = v
			}
			frame++
		}
	}

	if frame == 0 {
		return nil, 0, apperrors.WrapWithDetail(apperrors.CodeAudioExtract,
			"Audio extraction failed", "no audio samples decoded", nil)
	}

	peaks := make([][2]float64, buckets)
	for i := range peaks {
		if mins[i] > maxs[i] {
			peaks[i] = [2]float64{0, 0}
			continue
		}
		peaks[i] = [2]float64{mins[i], maxs[i]}
	}
	return peaks, float64(frame) / float64(format.SampleRate), nil
}
