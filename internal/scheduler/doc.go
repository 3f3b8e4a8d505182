// Package scheduler decides which practice item a game round presents next.
//
// A Scheduler works through one set at a time. Fresh items come from the
// question pool in bank order. An item answered wrong for the first time is
// queued in the repeat pool and offered again once three answers have been
// recorded while the queue was non-empty, or as soon as fresh items run out.
// An item that fails its retry is moved to the play-again pool and is not
// offered again until Reset(true).
//
// A set ends when the required number of correct answers is reached, when
// the answer budget (MaxQuestions) is spent, or when both the question and
// repeat pools are empty. Reason reports which.
//
// Typical round loop:
//
//	s, err := scheduler.New(b, 10)
//	if err != nil {
//	    return err
//	}
//	s.Reset(false)
//	for {
//	    p, ok := s.Next()
//	    if !ok {
//	        break
//	    }
//	    if check(p.Item) {
//	        s.AnswerCorrectly(p)
//	    } else {
//	        s.AnswerIncorrectly(p)
//	    }
//	}
package scheduler
