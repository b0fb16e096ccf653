// Globals for nqtop

package nqtop

var (
	GlobalConfig *NqtopConfig
)
