// Package audio detects onsets in an audio file.
//
// FFmpegAnalyzer decodes the file to mono PCM through ffmpeg and hands the
// samples to AnalyzeSamples, which computes a mel spectral-flux onset
// strength envelope and picks its local peaks. Each detected onset carries
// the un-normalized envelope value at its frame as its strength.
//
// Analyzers satisfy the Analyzer interface so callers can wrap them with a
// cache or substitute a fake in tests.
package audio
