package assert

import "github.com/hargrave81/minesharp-go/mcerror"

func IsTrue(ok bool, message string, args ...interface{}) {
	if !ok {
		panic(mcerror.New(message, args...))
	}
}
