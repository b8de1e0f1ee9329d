package main

import (
	"log"
	"strconv"
	"strings"
)

// / The version number of the current sstool release.
const kSstoolVersion = "1.1.0"

// ParseVersion 解析版本字符串，提取主版本号和次版本号。
func ParseVersion(version string, major, minor *int) {
	parts := strings.Split(version, ".")
	if len(parts) > 0 {
		*major, _ = strconv.Atoi(parts[0])
	}
	*minor = 0
	if len(parts) > 1 {
		*minor, _ = strconv.Atoi(parts[1])
	}
}

// / Exits when this binary is older than the version a wrapping script
// / asked for with -r.
func CheckSstoolVersion(version string) {
	bin_major := 0
	bin_minor := 0
	ParseVersion(kSstoolVersion, &bin_major, &bin_minor)
	req_major := 0
	req_minor := 0
	ParseVersion(version, &req_major, &req_minor)

	if bin_major > req_major {
		Warning("sstool executable version (%s) greater than required "+
			"version (%s); versions may be incompatible.",
			kSstoolVersion, version)
		return
	}

	if (bin_major == req_major && bin_minor < req_minor) ||
		bin_major < req_major {
		log.Fatalf("sstool version (%s) incompatible with required version (%s).",
			kSstoolVersion, version)
	}
}
