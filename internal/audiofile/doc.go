// Package audiofile turns uploaded audio bytes into a decoded stereo
// [Source] at the engine sample rate and encodes rendered audio as 16-bit
// WAV.
//
// Supported inputs are RIFF/WAVE PCM (8, 16, 24 and 32 bit) and MPEG-1/2
// layer III. Inputs above [MaxInputSize] bytes are rejected.
package audiofile
