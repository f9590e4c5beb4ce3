//go:build windows

package main

import "golang.org/x/sys/windows"

// availableBytes reports the space the calling user may use in dir.
func availableBytes(dir string) (uint64, error) {
	name, err := windows.UTF16PtrFromString(dir)
	if err != nil {
		return 0, err
	}
	var callerFree, volumeSize, volumeFree uint64
	if err := windows.GetDiskFreeSpaceEx(name, &callerFree, &volumeSize, &volumeFree); err != nil {
		return 0, err
	}
	return callerFree, nil
}
