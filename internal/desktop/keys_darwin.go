//go:build darwin

package desktop

/*
#cgo LDFLAGS: -framework ApplicationServices

#include <ApplicationServices/ApplicationServices.h>

static int postCommandKey(CGKeyCode key, int down) {
    CGEventSourceRef source = CGEventSourceCreate(kCGEventSourceStateHIDSystemState);
    if (source == NULL) {
        return -1;
    }
    CGEventRef event = CGEventCreateKeyboardEvent(source, key, down ? true : false);
    if (event == NULL) {
        CFRelease(source);
        return -2;
    }
    CGEventSetFlags(event, kCGEventFlagMaskCommand);
    CGEventPost(kCGHIDEventTap, event);
    CFRelease(event);
    CFRelease(source);
    return 0;
}
*/
import "C"

import "errors"

func postCommandKey(key uint16, down bool) error {
	d := C.int(0)
	if down {
		d = 1
	}
	switch C.postCommandKey(C.CGKeyCode(key), d) {
	case -1:
		return errors.New("failed to create event source")
	case -2:
		return errors.New("failed to create keyboard event")
	}
	return nil
}
