package registry

var IsRootPathForTest = isRootPath
