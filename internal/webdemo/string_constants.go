package webdemo

const (
	spectrumWindowHann     = "hann"
	spectrumWindowHamming  = "hamming"
	spectrumWindowBlackman = "blackman"

	defaultSpectrumWindow = spectrumWindowHann
	defaultFFTSize        = 2048

	spectrumFloorDB = -130.0
)
