// Package spring animates a value toward a target with a damped spring.
//
// A [Spring] owns one oscillator and the lifecycle around it. It never
// schedules itself: something outside calls [Spring.Tick] (wall-clock
// elapsed time) or [Spring.TickBy] (explicit elapsed time) at whatever
// cadence it likes, and the spring integrates as many fixed sub-steps as
// that time covers, firing OnFrame once per sub-step.
//
//	opts := spring.DefaultOptions()
//	opts.Target = dynamo.Scalar(100)
//	opts.OnComplete = func(v dynamo.Value, s *spring.Spring) { fmt.Println("done", v) }
//	s, err := spring.New(opts)
//	if err != nil {
//	    return err
//	}
//	s.Start()
//	for !s.Resting() {
//	    s.TickBy(1.0 / 60)
//	}
//
// # Lifecycle
//
// A spring is either resting or running. [Spring.Start] makes it run;
// [Spring.Pause] rests it keeping its velocity, [Spring.Stop] rests it and
// zeroes the velocity, and [Spring.Complete] snaps it onto the target.
// A running spring completes by itself once both its distance to the target
// and its speed drop under the precision. Changing the target never starts
// a resting spring.
//
// # Vectors
//
// A vector value is animated through the mean of its components: the
// oscillator moves the mean, and each component is placed at the same
// fraction of the way from its start to its target. At rest the exact
// start or target vector is returned.
//
// # Scheduling
//
// Give [Options.Scheduler] to have Start register the spring with a loop
// and Pause, Stop and Complete unregister it. See package sim for a
// ticker-driven loop and a deterministic harness.
//
// # Thread Safety
//
// A Spring is NOT safe for concurrent use. Callbacks run synchronously on
// the goroutine that called Tick and may call Pause, Stop or Complete on
// the spring that invoked them.
package spring
