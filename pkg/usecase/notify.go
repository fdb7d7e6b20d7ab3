package usecase

import "github.com/taskops/taskboard/pkg/utils/async"

// asyncNotify is swapped for a synchronous call in tests
var asyncNotify = async.Dispatch
