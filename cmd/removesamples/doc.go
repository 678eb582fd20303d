// Command removesamples is an NZBGet post-processing extension that removes
// sample files and directories from completed downloads. Invoked by the host
// it follows the post-processing exit-code contract; invoked by hand it
// offers dry-run scanning plus quarantine, history, config, and notification
// utilities.
package main
