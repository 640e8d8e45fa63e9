Hello from walkdir
