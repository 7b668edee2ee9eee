package platform

import "os"

// OS implements Platform using the native file API of the build platform.
type OS struct{}

// Stat implements Platform.Stat.
func (OS) Stat(path string) (FileInfo, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}
	return fileInfoFrom(fi), nil
}

// Default is the default native platform.
var Default Platform = OS{}
