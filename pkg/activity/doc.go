// Package activity tracks last-seen timestamps for named activities and
// projects them into boolean liveness.
//
// A Record maps activity names to the time each was last observed. An
// activity that was never observed reports the zero time.Time, which is
// earlier than any real observation. The name Any stands for the whole
// object and reports the latest of all named activities.
//
// A Monitor polls a Source at a fixed interval and fires a Change whenever
// an activity flips between active (seen within the timeout) and inactive.
// Stopping the monitor fires an inactive Change for every activity.
package activity
