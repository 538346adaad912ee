// speakviz records a speaker's head orientation and eye contact, classifies
// the engagement pattern and stores the resulting reports.
package main

func main() {
	Execute()
}
